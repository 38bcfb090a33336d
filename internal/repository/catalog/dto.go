package catalog

import (
	"strconv"
	"time"

	"github.com/docuviet/hopdong/internal/domain"
)

// Hash field encoding per kind. Empty optional fields are not stored.

func typeFields(ct *domain.ContractType) map[string]string {
	m := map[string]string{"name": ct.Name}
	if ct.Description != "" {
		m["description"] = ct.Description
	}
	return m
}

func parseType(m map[string]string) domain.ContractType {
	return domain.ContractType{
		ID:          parseID(m),
		Name:        m["name"],
		Description: m["description"],
		CreatedAt:   parseCreatedAt(m),
	}
}

func partnerFields(p *domain.Partner) map[string]string {
	m := map[string]string{
		"name":         p.Name,
		"partner_type": p.PartnerType,
	}
	optional := map[string]string{
		"tax_id":         p.TaxID,
		"address":        p.Address,
		"phone":          p.Phone,
		"email":          p.Email,
		"contact_person": p.ContactPerson,
		"notes":          p.Notes,
	}
	for k, v := range optional {
		if v != "" {
			m[k] = v
		}
	}
	return m
}

func parsePartner(m map[string]string) domain.Partner {
	return domain.Partner{
		ID:            parseID(m),
		Name:          m["name"],
		PartnerType:   m["partner_type"],
		TaxID:         m["tax_id"],
		Address:       m["address"],
		Phone:         m["phone"],
		Email:         m["email"],
		ContactPerson: m["contact_person"],
		Notes:         m["notes"],
		CreatedAt:     parseCreatedAt(m),
	}
}

func departmentFields(d *domain.Department) map[string]string {
	m := map[string]string{"name": d.Name}
	if d.Description != "" {
		m["description"] = d.Description
	}
	return m
}

func parseDepartment(m map[string]string) domain.Department {
	return domain.Department{
		ID:          parseID(m),
		Name:        m["name"],
		Description: m["description"],
		CreatedAt:   parseCreatedAt(m),
	}
}

func tagFields(tag *domain.Tag) map[string]string {
	m := map[string]string{"name": tag.Name}
	if tag.Color != "" {
		m["color"] = tag.Color
	}
	return m
}

func parseTag(m map[string]string) domain.Tag {
	return domain.Tag{
		ID:        parseID(m),
		Name:      m["name"],
		Color:     m["color"],
		CreatedAt: parseCreatedAt(m),
	}
}

func parseID(m map[string]string) int64 {
	id, _ := strconv.ParseInt(m["id"], 10, 64)
	return id
}

func parseCreatedAt(m map[string]string) time.Time {
	t, _ := time.Parse(time.RFC3339, m["created_at"])
	return t
}
