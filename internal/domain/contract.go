package domain

import "time"

// Contract status values.
const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
)

// Role keys under which extracted party blocks are stored.
const (
	RolePartyA = "party_a"
	RolePartyB = "party_b"
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// Signatures reports signature context detected near each party label,
// plus whether any signature keyword appears at all.
type Signatures struct {
	PartyAPresent bool `json:"party_a_present"`
	PartyBPresent bool `json:"party_b_present"`
	AnyMention    bool `json:"any_mention"`
}

// ContractRecord is the structured extraction result derived from a
// contract's recognized text. It is a pure function of that text (plus an
// optional externally supplied type override applied by the ingestion
// workflow) and is immutable after creation.
//
// Optional fields are pointers: nil means the extractor found nothing,
// which is distinct from an empty string. The JSON encoding preserves that
// distinction via omitempty so records round-trip through storage.
type ContractRecord struct {
	Title         *string           `json:"title,omitempty"`
	Type          string            `json:"type"`
	TypeLabel     string            `json:"type_label"`
	Parties       map[string]string `json:"parties,omitempty"`
	EffectiveDate *string           `json:"effective_date,omitempty"`
	Amount        *string           `json:"amount,omitempty"`
	Clauses       []string          `json:"clauses,omitempty"`
	Signatures    Signatures        `json:"signatures"`
}

// Stats summarizes the stored corpus for the dashboard. Expiring counts
// processed contracts whose expiration date falls within the next 30 days.
type Stats struct {
	Total     int            `json:"total"`
	Processed int            `json:"processed"`
	Pending   int            `json:"pending"`
	Expiring  int            `json:"expiring"`
	ByType    map[string]int `json:"by_type"`
}

// Contract is the stored metadata of one ingested document. The record and
// the raw text are owned exclusively by the contract and are deleted with it.
type Contract struct {
	ID               int64          `json:"id"`
	OriginalFilename string         `json:"original_filename"`
	OriginalPath     string         `json:"original_path"`
	TextPath         string         `json:"text_path"`
	Record           ContractRecord `json:"record"`
	Status           string         `json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
	ExpirationDate   *time.Time     `json:"expiration_date,omitempty"`
	ContractTypeID   *int64         `json:"contract_type_id,omitempty"`
}
