package hopdong

import (
	"time"

	"github.com/docuviet/hopdong/internal/domain"
)

// Contract is the stored metadata of one ingested document.
type Contract struct {
	ID               int64
	OriginalFilename string
	OriginalPath     string
	TextPath         string
	Record           ContractRecord
	Status           string
	CreatedAt        time.Time
	ExpirationDate   *time.Time
	ContractTypeID   *int64
}

// ContractRecord is the structured extraction result derived from the
// recognized text. Optional fields are nil when the extractor found nothing.
type ContractRecord struct {
	Title         *string
	Type          string
	TypeLabel     string
	Parties       map[string]string
	EffectiveDate *string
	Amount        *string
	Clauses       []string
	Signatures    Signatures
}

// Signatures reports signature context detected near each party label.
type Signatures struct {
	PartyAPresent bool
	PartyBPresent bool
	AnyMention    bool
}

// SummaryMatch is one corpus search hit.
type SummaryMatch struct {
	ContractID int64
	Filename   string
	Snippet    string
	Type       string
	TypeLabel  string
}

// SentenceMatch is one sentence-level hit inside a single contract.
type SentenceMatch struct {
	Text       string
	Page       int
	Confidence float64
}

// Stats summarizes the stored corpus. Expiring counts processed contracts
// whose expiration date falls within the next 30 days.
type Stats struct {
	Total     int
	Processed int
	Pending   int
	Expiring  int
	ByType    map[string]int
}

// ContractType is a user-managed contract category.
type ContractType struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

func contractFromDomain(c domain.Contract) Contract {
	return Contract{
		ID:               c.ID,
		OriginalFilename: c.OriginalFilename,
		OriginalPath:     c.OriginalPath,
		TextPath:         c.TextPath,
		Record:           recordFromDomain(c.Record),
		Status:           c.Status,
		CreatedAt:        c.CreatedAt,
		ExpirationDate:   c.ExpirationDate,
		ContractTypeID:   c.ContractTypeID,
	}
}

func recordFromDomain(r domain.ContractRecord) ContractRecord {
	return ContractRecord{
		Title:         r.Title,
		Type:          r.Type,
		TypeLabel:     r.TypeLabel,
		Parties:       r.Parties,
		EffectiveDate: r.EffectiveDate,
		Amount:        r.Amount,
		Clauses:       r.Clauses,
		Signatures: Signatures{
			PartyAPresent: r.Signatures.PartyAPresent,
			PartyBPresent: r.Signatures.PartyBPresent,
			AnyMention:    r.Signatures.AnyMention,
		},
	}
}

func summaryFromDomain(m domain.SummaryMatch) SummaryMatch {
	return SummaryMatch{
		ContractID: m.ContractID,
		Filename:   m.Filename,
		Snippet:    m.Snippet,
		Type:       m.Type,
		TypeLabel:  m.TypeLabel,
	}
}

func sentenceFromDomain(m domain.SentenceMatch) SentenceMatch {
	return SentenceMatch{
		Text:       m.Context,
		Page:       m.Page,
		Confidence: m.Confidence,
	}
}

func typeFromDomain(ct domain.ContractType) ContractType {
	return ContractType{
		ID:          ct.ID,
		Name:        ct.Name,
		Description: ct.Description,
		CreatedAt:   ct.CreatedAt,
	}
}
