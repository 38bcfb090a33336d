package contract

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/docuviet/hopdong/internal/domain"
)

// contractDoc is the stored JSON shape of a contract. It mirrors the domain
// struct so the storage encoding is pinned independently of API changes.
type contractDoc struct {
	ID               int64                 `json:"id"`
	OriginalFilename string                `json:"original_filename"`
	OriginalPath     string                `json:"original_path"`
	TextPath         string                `json:"text_path"`
	Record           domain.ContractRecord `json:"record"`
	Status           string                `json:"status"`
	CreatedAt        time.Time             `json:"created_at"`
	ExpirationDate   *time.Time            `json:"expiration_date,omitempty"`
	ContractTypeID   *int64                `json:"contract_type_id,omitempty"`
}

func toDoc(c *domain.Contract) contractDoc {
	return contractDoc{
		ID:               c.ID,
		OriginalFilename: c.OriginalFilename,
		OriginalPath:     c.OriginalPath,
		TextPath:         c.TextPath,
		Record:           c.Record,
		Status:           c.Status,
		CreatedAt:        c.CreatedAt,
		ExpirationDate:   c.ExpirationDate,
		ContractTypeID:   c.ContractTypeID,
	}
}

func (d contractDoc) toDomain() domain.Contract {
	return domain.Contract{
		ID:               d.ID,
		OriginalFilename: d.OriginalFilename,
		OriginalPath:     d.OriginalPath,
		TextPath:         d.TextPath,
		Record:           d.Record,
		Status:           d.Status,
		CreatedAt:        d.CreatedAt,
		ExpirationDate:   d.ExpirationDate,
		ContractTypeID:   d.ContractTypeID,
	}
}

// parseDoc decodes a JSON.GET "$" result, which wraps the document in a
// single-element array.
func parseDoc(raw []byte) (domain.Contract, error) {
	var docs []contractDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return domain.Contract{}, fmt.Errorf("unmarshal contract: %w", err)
	}
	if len(docs) == 0 {
		return domain.Contract{}, domain.ErrContractNotFound
	}
	return docs[0].toDomain(), nil
}
