package engine

import "github.com/roach88/ponto/internal/domain"

// Rejection reasons returned by Validate.
const (
	ReasonEntryRecorded      = "entry already recorded today"
	ReasonEntryFirst         = "record entry first"
	ReasonBreakStartRecorded = "break start already recorded today"
	ReasonBreakStartFirst    = "record break start first"
	ReasonBreakEndRecorded   = "break end already recorded today"
	ReasonExitRecorded       = "exit already recorded today"
	ReasonCloseBreak         = "close the break before recording exit"
)

// Validate decides whether kind may be recorded on a day that already holds
// existing. It is pure: no storage, no clock. Rules are checked in a fixed
// precedence so the same state always yields the same reason.
//
//	entrada         - not already present
//	inicio_descanso - entrada present; not already present
//	fim_descanso    - inicio_descanso present; not already present
//	saida           - entrada present; not already present; no open break
func Validate(existing domain.KindSet, kind domain.EventKind) error {
	switch kind {
	case domain.KindEntrada:
		if existing.Has(domain.KindEntrada) {
			return NewSequenceError(ReasonEntryRecorded)
		}
	case domain.KindInicioDescanso:
		if !existing.Has(domain.KindEntrada) {
			return NewSequenceError(ReasonEntryFirst)
		}
		if existing.Has(domain.KindInicioDescanso) {
			return NewSequenceError(ReasonBreakStartRecorded)
		}
	case domain.KindFimDescanso:
		if !existing.Has(domain.KindInicioDescanso) {
			return NewSequenceError(ReasonBreakStartFirst)
		}
		if existing.Has(domain.KindFimDescanso) {
			return NewSequenceError(ReasonBreakEndRecorded)
		}
	case domain.KindSaida:
		if !existing.Has(domain.KindEntrada) {
			return NewSequenceError(ReasonEntryFirst)
		}
		if existing.Has(domain.KindSaida) {
			return NewSequenceError(ReasonExitRecorded)
		}
		if existing.Has(domain.KindInicioDescanso) && !existing.Has(domain.KindFimDescanso) {
			return NewSequenceError(ReasonCloseBreak)
		}
	default:
		return NewError(ErrCodeInvalidKind, "invalid event kind %q", kind)
	}
	return nil
}
