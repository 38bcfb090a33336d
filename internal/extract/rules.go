package extract

import "regexp"

// Fallback classification when no rule matches.
const (
	TypeOther      = "other"
	TypeOtherLabel = "Other"
)

// typeRules is an ordered precedence list evaluated first-match-wins over
// the upper-cased head of the document. A text containing cues for several
// types classifies by the earliest rule here, not by cue position in the
// text, so the order below is load-bearing.
var typeRules = []struct {
	tag     string
	label   string
	pattern *regexp.Regexp
}{
	{"mua_ban", "Mua Ban", regexp.MustCompile(`(?i)MUA\s*BÁN|MUA BAN`)},
	{"lao_dong", "Lao Dong", regexp.MustCompile(`(?i)LAO\s*ĐỘNG|LAO DONG`)},
	{"dich_vu", "Dich Vu", regexp.MustCompile(`(?i)DỊCH\s*VỤ|DICH VU`)},
	{"thue", "Thue", regexp.MustCompile(`(?i)THUÊ|THUE|CHO\s*THUÊ|CHO THUE`)},
	{"hop_tac", "Hop Tac", regexp.MustCompile(`(?i)HỢP\s*TÁC|HOP TAC|LIÊN\s*KẾT|LIEN KET`)},
	{"bao_mat", "Bao Mat", regexp.MustCompile(`(?i)BẢO\s*MẬT|BAO MAT|NDA|NON-DISCLOSURE`)},
	{"nguyen_tac", "Nguyen Tac", regexp.MustCompile(`(?i)NGUYÊN\s*TẮC|NGUYEN TAC|KHUNG HỢP ĐỒNG|KHUNG HOP DONG`)},
}
