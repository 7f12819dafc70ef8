package mediation

// 因果结构模式
type Mode int

const (
	MODE_NO_MEDIATION      Mode = iota // "no-mediation"
	MODE_FULL_MEDIATION                // "full-mediation"
	MODE_PARTIAL_MEDIATION             // "partial-mediation"
	MODE_ERROR                         // "ERROR"
)

func (m Mode) String() string {
	switch m {
	case MODE_NO_MEDIATION:
		return "no-mediation"
	case MODE_FULL_MEDIATION:
		return "full-mediation"
	case MODE_PARTIAL_MEDIATION:
		return "partial-mediation"
	default:
		return "ERROR"
	}
}

func GetMyMode(s string) Mode {
	switch s {
	case "no-mediation":
		return MODE_NO_MEDIATION
	case "full-mediation":
		return MODE_FULL_MEDIATION
	case "partial-mediation":
		return MODE_PARTIAL_MEDIATION
	default:
		return MODE_ERROR
	}
}
