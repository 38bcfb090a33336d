package extract

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/docuviet/hopdong/internal/domain"
)

const sampleContract = `CỘNG HÒA XÃ HỘI CHỦ NGHĨA VIỆT NAM
Độc lập - Tự do - Hạnh phúc

HỢP ĐỒNG MUA BÁN HÀNG HÓA
Số: 42/2024/HĐMB

Hôm nay, ngày 15 tháng 3 năm 2024, tại Hà Nội, chúng tôi gồm:

Bên A: CÔNG TY TNHH THƯƠNG MẠI AN PHÁT
Địa chỉ: 12 Lý Thường Kiệt, Hà Nội
Mã số thuế: 0101234567

Bên B: CÔNG TY CỔ PHẦN XÂY DỰNG HOÀ BÌNH
Địa chỉ: 45 Trần Hưng Đạo, Hà Nội

Điều 1. Đối tượng hợp đồng
Bên A bán cho Bên B lô vật liệu xây dựng.

Điều 2. Giá cả và thanh toán
Tổng giá trị hợp đồng: 2.500.000 VNĐ (đã gồm VAT).

Điều 3. Thanh toán
Thanh toán chuyển khoản trong 30 ngày.

ĐẠI DIỆN BÊN A                    ĐẠI DIỆN BÊN B
(Ký tên, đóng dấu)                (Ký tên, đóng dấu)
`

func TestExtract_Deterministic(t *testing.T) {
	first := Extract(sampleContract)
	second := Extract(sampleContract)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestExtract_EmptyText(t *testing.T) {
	rec := Extract("")
	if rec.Title != nil {
		t.Errorf("expected absent title, got %q", *rec.Title)
	}
	if rec.Type != TypeOther || rec.TypeLabel != TypeOtherLabel {
		t.Errorf("expected fallback type, got %s/%s", rec.Type, rec.TypeLabel)
	}
	if rec.Parties != nil {
		t.Errorf("expected no parties, got %v", rec.Parties)
	}
	if rec.EffectiveDate != nil || rec.Amount != nil || rec.Clauses != nil {
		t.Error("expected all optional fields absent on empty text")
	}
	if rec.Signatures != (domain.Signatures{}) {
		t.Errorf("expected no signature flags, got %+v", rec.Signatures)
	}
}

// --- Title ---

func TestExtractTitle_DiacriticVariants(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"precomposed", "HỢP ĐỒNG MUA BÁN HÀNG HÓA"},
		{"ascii", "HOP DONG MUA BAN HANG HOA"},
		{"spaced", "H Ợ P Đ Ồ N G MUA BÁN"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			text := "Công ty ABC\n\n" + tc.line + "\nSố: 01/2024\n"
			got := extractTitle(text)
			if got == nil {
				t.Fatalf("expected title for %q", tc.line)
			}
			if *got != tc.line {
				t.Errorf("expected %q, got %q", tc.line, *got)
			}
		})
	}
}

func TestExtractTitle_FirstMatchingLineWins(t *testing.T) {
	text := "Phụ lục\nHỢP ĐỒNG DỊCH VỤ\nHỢP ĐỒNG KHÁC\n"
	got := extractTitle(text)
	if got == nil || *got != "HỢP ĐỒNG DỊCH VỤ" {
		t.Fatalf("expected first heading line, got %v", got)
	}
}

func TestExtractTitle_BeyondScanWindowIgnored(t *testing.T) {
	var b strings.Builder
	for i := 0; i < TitleScanLines; i++ {
		fmt.Fprintf(&b, "dòng thứ %d\n", i)
	}
	b.WriteString("HỢP ĐỒNG MUA BÁN\n")
	if got := extractTitle(b.String()); got != nil {
		t.Errorf("heading on line %d should be out of scan range, got %q", TitleScanLines+1, *got)
	}
}

// --- Type classification ---

func TestClassifyType_PrecedenceOverTextOrder(t *testing.T) {
	// The labor cue appears first in the text; the sale rule still wins
	// because it is earlier in the rule table.
	text := "HỢP ĐỒNG LAO ĐỘNG VÀ MUA BÁN THIẾT BỊ\n"
	tag, _ := classifyType(text)
	if tag != "mua_ban" {
		t.Errorf("expected mua_ban by rule precedence, got %s", tag)
	}
}

func TestClassifyType_Table(t *testing.T) {
	tests := []struct {
		head string
		tag  string
	}{
		{"HỢP ĐỒNG MUA BÁN", "mua_ban"},
		{"HOP DONG MUA BAN", "mua_ban"},
		{"HỢP ĐỒNG LAO ĐỘNG", "lao_dong"},
		{"HỢP ĐỒNG DỊCH VỤ", "dich_vu"},
		{"HỢP ĐỒNG CHO THUÊ NHÀ XƯỞNG", "thue"},
		{"HỢP ĐỒNG HỢP TÁC KINH DOANH", "hop_tac"},
		{"THỎA THUẬN BẢO MẬT (NDA)", "bao_mat"},
		{"HỢP ĐỒNG NGUYÊN TẮC", "nguyen_tac"},
		{"BIÊN BẢN BÀN GIAO", "other"},
	}
	for _, tc := range tests {
		t.Run(tc.tag+"/"+tc.head, func(t *testing.T) {
			tag, label := classifyType(tc.head + "\n")
			if tag != tc.tag {
				t.Errorf("classify(%q): expected %s, got %s", tc.head, tc.tag, tag)
			}
			if label == "" {
				t.Error("label must never be empty")
			}
		})
	}
}

func TestClassifyType_CueBeyondScanWindowIgnored(t *testing.T) {
	var b strings.Builder
	for i := 0; i < TypeScanLines; i++ {
		fmt.Fprintf(&b, "nội dung %d\n", i)
	}
	b.WriteString("HỢP ĐỒNG MUA BÁN\n")
	tag, _ := classifyType(b.String())
	if tag != TypeOther {
		t.Errorf("cue past line %d should not classify, got %s", TypeScanLines, tag)
	}
}

// --- Parties ---

func TestExtractParties_BlocksEndAtBlankLine(t *testing.T) {
	parties := extractParties(sampleContract)

	a, ok := parties[domain.RolePartyA]
	if !ok {
		t.Fatal("expected party_a block")
	}
	if !strings.Contains(a, "AN PHÁT") || !strings.Contains(a, "0101234567") {
		t.Errorf("party_a block missing expected lines: %q", a)
	}
	if strings.Contains(a, "HOÀ BÌNH") {
		t.Errorf("party_a block ran past the blank-line boundary: %q", a)
	}

	b, ok := parties[domain.RolePartyB]
	if !ok {
		t.Fatal("expected party_b block")
	}
	if !strings.Contains(b, "HOÀ BÌNH") {
		t.Errorf("party_b block missing name: %q", b)
	}
}

func TestExtractParties_AbsentRolesOmitted(t *testing.T) {
	parties := extractParties("Bên Mua: Công ty X\nĐịa chỉ: Hà Nội\n")
	if _, ok := parties[domain.RoleBuyer]; !ok {
		t.Fatal("expected buyer role")
	}
	for _, role := range []string{domain.RolePartyA, domain.RolePartyB, domain.RoleSeller} {
		if _, ok := parties[role]; ok {
			t.Errorf("role %s must be absent, not empty", role)
		}
	}
}

func TestExtractParties_WindowCap(t *testing.T) {
	// No blank line at all: the block is capped at the rune window.
	text := "Bên A: " + strings.Repeat("x", PartyWindow*2)
	parties := extractParties(text)
	block := parties[domain.RolePartyA]
	if n := len([]rune(block)); n > PartyWindow {
		t.Errorf("party block exceeds %d runes: %d", PartyWindow, n)
	}
}

func TestExtractParties_SpacedDiacritics(t *testing.T) {
	parties := extractParties("B Ê N A: Công ty thử nghiệm\n")
	if _, ok := parties[domain.RolePartyA]; !ok {
		t.Error("spaced party label should match")
	}
}

// --- Effective date ---

func TestExtractEffectiveDate_LongFormPreferred(t *testing.T) {
	text := "Ký kết 01/01/2020. Có hiệu lực ngày 5 tháng 7 năm 2023."
	got := extractEffectiveDate(text)
	if got == nil || *got != "ngày 5 tháng 7 năm 2023" {
		t.Fatalf("expected long form literal, got %v", got)
	}
}

func TestExtractEffectiveDate_ShortFallback(t *testing.T) {
	tests := []struct{ text, want string }{
		{"Hiệu lực từ 15/03/2024 đến hết năm", "15/03/2024"},
		{"Hiệu lực từ 1-9-2023.", "1-9-2023"},
	}
	for _, tc := range tests {
		got := extractEffectiveDate(tc.text)
		if got == nil || *got != tc.want {
			t.Errorf("extractEffectiveDate(%q) = %v, want %q", tc.text, got, tc.want)
		}
	}
}

func TestExtractEffectiveDate_Absent(t *testing.T) {
	if got := extractEffectiveDate("không có thông tin thời gian"); got != nil {
		t.Errorf("expected absent date, got %q", *got)
	}
}

// --- Amount ---

func TestExtractAmount_LabeledLineWins(t *testing.T) {
	text := "Số lượng: 99.999.999 chiếc\nGiá trị hợp đồng: 2.500.000 VNĐ\n"
	got := extractAmount(text)
	if got == nil {
		t.Fatal("expected amount")
	}
	if !strings.HasPrefix(*got, "2.500.000") {
		t.Errorf("labeled line must win over larger unlabeled number, got %q", *got)
	}
}

func TestExtractAmount_MostDigitsWins(t *testing.T) {
	text := "Tạm ứng 500.000 đồng, còn lại 1.000.000 đồng."
	got := extractAmount(text)
	if got == nil || !strings.HasPrefix(*got, "1.000.000") {
		t.Fatalf("expected 1.000.000 (more digits), got %v", got)
	}
}

func TestExtractAmount_TieBrokenByInputOrder(t *testing.T) {
	text := "đợt một 123.456 đồng, đợt hai 654.321 đồng"
	got := extractAmount(text)
	if got == nil || !strings.HasPrefix(*got, "123.456") {
		t.Fatalf("expected first candidate on digit-count tie, got %v", got)
	}
}

func TestExtractAmount_Absent(t *testing.T) {
	if got := extractAmount("thanh toán theo thỏa thuận, số 7 và 42"); got != nil {
		t.Errorf("ungrouped numbers are not candidates, got %q", *got)
	}
}

// --- Clauses ---

func TestExtractClauses_OrderAndCap(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 75; i++ {
		fmt.Fprintf(&b, "Điều %d. Nội dung điều khoản\nchi tiết...\n", i)
	}
	clauses := extractClauses(b.String())
	if len(clauses) != ClauseCap {
		t.Fatalf("expected %d clauses, got %d", ClauseCap, len(clauses))
	}
	if !strings.HasPrefix(clauses[0], "Điều 1.") {
		t.Errorf("expected document order, first clause is %q", clauses[0])
	}
	if !strings.HasPrefix(clauses[ClauseCap-1], fmt.Sprintf("Điều %d.", ClauseCap)) {
		t.Errorf("expected clause %d last, got %q", ClauseCap, clauses[ClauseCap-1])
	}
}

func TestExtractClauses_LineInitialOnly(t *testing.T) {
	text := "theo quy định tại Điều 5 của luật\nĐiều 1. Phạm vi áp dụng\n"
	clauses := extractClauses(text)
	if len(clauses) != 1 {
		t.Fatalf("expected only line-initial headings, got %v", clauses)
	}
	if clauses[0] != "Điều 1. Phạm vi áp dụng" {
		t.Errorf("unexpected clause %q", clauses[0])
	}
}

// --- Signatures ---

func TestExtractSignatures_ProximityWindow(t *testing.T) {
	// Signature keyword 50 runes after BÊN A, while BÊN B sits far from any
	// signature word.
	text := "BÊN B: Công ty Hoà Bình\n" +
		strings.Repeat("nội dung hợp đồng ", 40) + "\n" +
		"BÊN A xác nhận các điều khoản nêu trên là đúng. Ký tên: Nguyễn Văn An"

	sigs := extractSignatures(text)
	if !sigs.PartyAPresent {
		t.Error("expected party_a_present=true (keyword within window)")
	}
	if sigs.PartyBPresent {
		t.Error("expected party_b_present=false (keyword beyond window)")
	}
	if !sigs.AnyMention {
		t.Error("expected any_mention=true")
	}
}

func TestExtractSignatures_CrossesLineBreaks(t *testing.T) {
	text := "ĐẠI DIỆN\nBÊN A\n(đã ký)"
	sigs := extractSignatures(text)
	if !sigs.PartyAPresent {
		t.Error("proximity must match across line breaks")
	}
}

func TestExtractSignatures_KeywordOnly(t *testing.T) {
	sigs := extractSignatures("Tài liệu có chữ ký số hợp lệ.")
	if sigs.PartyAPresent || sigs.PartyBPresent {
		t.Error("no party labels present, flags must be false")
	}
	if !sigs.AnyMention {
		t.Error("expected any_mention=true for standalone keyword")
	}
}

// --- Whole-record sanity over the sample document ---

func TestExtract_SampleContract(t *testing.T) {
	rec := Extract(sampleContract)

	if rec.Title == nil || *rec.Title != "HỢP ĐỒNG MUA BÁN HÀNG HÓA" {
		t.Errorf("title = %v", rec.Title)
	}
	if rec.Type != "mua_ban" {
		t.Errorf("type = %s", rec.Type)
	}
	if rec.EffectiveDate == nil || *rec.EffectiveDate != "ngày 15 tháng 3 năm 2024" {
		t.Errorf("effective_date = %v", rec.EffectiveDate)
	}
	if rec.Amount == nil || !strings.HasPrefix(*rec.Amount, "2.500.000") {
		t.Errorf("amount = %v", rec.Amount)
	}
	if len(rec.Clauses) != 3 {
		t.Errorf("expected 3 clauses, got %v", rec.Clauses)
	}
	if !rec.Signatures.PartyAPresent || !rec.Signatures.PartyBPresent || !rec.Signatures.AnyMention {
		t.Errorf("signatures = %+v", rec.Signatures)
	}
}
