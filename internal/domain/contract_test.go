package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestContractRecord_AbsenceSurvivesJSON(t *testing.T) {
	rec := ContractRecord{Type: "other", TypeLabel: "Other"}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{"title", "effective_date", "amount", "parties", "clauses"} {
		if strings.Contains(string(data), `"`+key+`"`) {
			t.Errorf("absent field %q must not be encoded: %s", key, data)
		}
	}

	var back ContractRecord
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Title != nil || back.EffectiveDate != nil || back.Amount != nil {
		t.Errorf("absence lost in round trip: %+v", back)
	}
}

func TestContractRecord_EmptyStringIsNotAbsent(t *testing.T) {
	empty := ""
	rec := ContractRecord{Type: "other", TypeLabel: "Other", Title: &empty}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back ContractRecord
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Title == nil {
		t.Fatal("empty title must survive as empty, not become absent")
	}
	if *back.Title != "" {
		t.Errorf("expected empty title, got %q", *back.Title)
	}
}
