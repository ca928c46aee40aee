// Package flow holds the conversational script: copy, pacing, and the
// mapping from answers to the next message. Routing itself lives in the bot
// package; this package is pure data and selection logic.
package flow

import (
	"time"

	"github.com/calmaflow/calma-bot/internal/domain"
)

// TechniquePause is the fixed UX pause between the explanation message and
// the technique message. It is deliberate pacing, not I/O latency.
const TechniquePause = 1500 * time.Millisecond

// Callback payload prefixes and identifiers carried in inline buttons.
const (
	CallbackStatePrefix = "state:"
	CallbackFreqPrefix  = "freq:"
	CallbackDone        = "done"
	CallbackBook        = "book"
)

// OfferFor selects the offer text for the reported frequency. The rare
// tier gets the softer offer; weekly and daily share the regular one.
func OfferFor(frequency domain.Frequency) string {
	if frequency == domain.FrequencyRare {
		return SoftOfferText
	}
	return RegularOfferText
}
