package protocol

// Kind identifies a message type by its three-letter wire id
type Kind uint8

const (
	KindUnknown Kind = iota
	KindLIN
	KindRLI
	KindLOU
	KindRLO
	KindUNR
	KindRUR
	KindOPA
	KindROA
	KindCLS
	KindRCL
	KindLMA
	KindRMA
	KindLMB
	KindRMB
	KindLST
	KindRLS
	KindBID
	KindRBD
	KindSAS
	KindRSA
	KindSRC
	KindRRC
	KindERR
)

const kindIDLen = 3

var kindIDs = [...]string{
	KindLIN: "LIN", KindRLI: "RLI",
	KindLOU: "LOU", KindRLO: "RLO",
	KindUNR: "UNR", KindRUR: "RUR",
	KindOPA: "OPA", KindROA: "ROA",
	KindCLS: "CLS", KindRCL: "RCL",
	KindLMA: "LMA", KindRMA: "RMA",
	KindLMB: "LMB", KindRMB: "RMB",
	KindLST: "LST", KindRLS: "RLS",
	KindBID: "BID", KindRBD: "RBD",
	KindSAS: "SAS", KindRSA: "RSA",
	KindSRC: "SRC", KindRRC: "RRC",
	KindERR: "ERR",
}

var kindsByID = func() map[string]Kind {
	m := make(map[string]Kind, len(kindIDs))
	for k, id := range kindIDs {
		if id != "" {
			m[id] = Kind(k)
		}
	}
	return m
}()

func (k Kind) String() string {
	if int(k) < len(kindIDs) && kindIDs[k] != "" {
		return kindIDs[k]
	}
	return "???"
}

// ParseKind maps a wire id to its Kind
func ParseKind(id string) (Kind, bool) {
	k, ok := kindsByID[id]
	return k, ok
}

// IsRequest reports whether k is sent by clients
func (k Kind) IsRequest() bool {
	switch k {
	case KindLIN, KindLOU, KindUNR, KindOPA, KindCLS, KindLMA, KindLMB, KindLST, KindBID, KindSAS, KindSRC:
		return true
	}
	return false
}

// Reply returns the reply kind answering request kind k
func (k Kind) Reply() Kind {
	if k.IsRequest() {
		return k + 1
	}
	return KindUnknown
}

// OverTCP reports whether k travels on the stream transport
func (k Kind) OverTCP() bool {
	switch k {
	case KindOPA, KindROA, KindCLS, KindRCL, KindBID, KindRBD, KindSAS, KindRSA:
		return true
	}
	return false
}
