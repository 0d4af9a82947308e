package protocol

// Status is a reply outcome token. Its meaning depends on the reply kind.
type Status string

const (
	StatusOK  Status = "OK"
	StatusNOK Status = "NOK"
	StatusREG Status = "REG"
	StatusUNR Status = "UNR"
	StatusNLG Status = "NLG"
	StatusEAU Status = "EAU"
	StatusEOW Status = "EOW"
	StatusEND Status = "END"
	StatusACC Status = "ACC"
	StatusREF Status = "REF"
	StatusILG Status = "ILG"
)

var vocabulary = map[Kind][]Status{
	KindRLI: {StatusOK, StatusNOK, StatusREG},
	KindRLO: {StatusOK, StatusNOK, StatusUNR},
	KindRUR: {StatusOK, StatusNOK, StatusUNR},
	KindROA: {StatusOK, StatusNOK},
	KindRCL: {StatusOK, StatusNLG, StatusEAU, StatusEOW, StatusEND},
	KindRMA: {StatusOK, StatusNOK, StatusNLG},
	KindRMB: {StatusOK, StatusNOK, StatusNLG},
	KindRLS: {StatusOK, StatusNOK},
	KindRBD: {StatusNOK, StatusNLG, StatusACC, StatusREF, StatusILG},
	KindRSA: {StatusOK, StatusNOK},
	KindRRC: {StatusOK, StatusNOK},
}

// ValidStatus reports whether s belongs to the vocabulary of reply kind k
func ValidStatus(k Kind, s Status) bool {
	for _, v := range vocabulary[k] {
		if v == s {
			return true
		}
	}
	return false
}
