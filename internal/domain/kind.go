package domain

import "fmt"

// EventKind identifies one of the four clock events an employee records per day.
type EventKind string

const (
	KindEntrada        EventKind = "entrada"         // clock-in
	KindInicioDescanso EventKind = "inicio_descanso" // break start
	KindFimDescanso    EventKind = "fim_descanso"    // break end
	KindSaida          EventKind = "saida"           // clock-out
)

// Kinds lists every valid kind in the order a normal day records them.
var Kinds = []EventKind{KindEntrada, KindInicioDescanso, KindFimDescanso, KindSaida}

// ParseEventKind validates a raw kind string.
func ParseEventKind(s string) (EventKind, error) {
	k := EventKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("invalid event kind %q: must be one of %v", s, Kinds)
	}
	return k, nil
}

// Valid reports whether k is one of the four known kinds.
func (k EventKind) Valid() bool {
	switch k {
	case KindEntrada, KindInicioDescanso, KindFimDescanso, KindSaida:
		return true
	}
	return false
}

// Label returns a short English name for display.
func (k EventKind) Label() string {
	switch k {
	case KindEntrada:
		return "clock-in"
	case KindInicioDescanso:
		return "break start"
	case KindFimDescanso:
		return "break end"
	case KindSaida:
		return "clock-out"
	}
	return string(k)
}

// KindSet is the set of kinds already recorded for one employee on one day.
type KindSet map[EventKind]bool

// NewKindSet builds a set from a list of kinds. Unknown kinds are kept as-is;
// they never satisfy a sequencing precondition.
func NewKindSet(kinds ...EventKind) KindSet {
	set := make(KindSet, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

// Has reports whether k is present.
func (s KindSet) Has(k EventKind) bool {
	return s[k]
}
