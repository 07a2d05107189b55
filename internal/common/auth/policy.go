// internal/common/auth/policy.go
package auth

import "sort"

// AdminPolicy decides who may run administrative commands.
type AdminPolicy struct {
	admins map[int64]struct{}
}

// NewAdminPolicy builds a policy from the configured admin ids. An empty list admits nobody.
func NewAdminPolicy(ids []int64) *AdminPolicy {
	admins := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		admins[id] = struct{}{}
	}
	return &AdminPolicy{admins: admins}
}

func (p *AdminPolicy) IsAdmin(userID int64) bool {
	if p == nil {
		return false
	}
	_, ok := p.admins[userID]
	return ok
}

// AdminIDs returns the admins in ascending order, used as notification recipients.
func (p *AdminPolicy) AdminIDs() []int64 {
	if p == nil {
		return nil
	}
	ids := make([]int64, 0, len(p.admins))
	for id := range p.admins {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
