package lower

// Kind classifies one factory parameter. The set is closed; every switch
// over Kind in lowering and synthesis handles all five values.
type Kind int

const (
	KindRequired Kind = iota
	KindOptional
	KindSequence
	KindSet
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindRequired:
		return "required"
	case KindOptional:
		return "optional"
	case KindSequence:
		return "sequence"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Collection reports whether fields of this kind accumulate values through
// a bulk and a singular setter and may be set any number of times.
func (k Kind) Collection() bool {
	switch k {
	case KindSequence, KindSet, KindMap:
		return true
	case KindRequired, KindOptional:
		return false
	default:
		return false
	}
}

// MarshalText renders the kind by name in plan dumps.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
