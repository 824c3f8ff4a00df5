package powerlog

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// plogEncMode is the CBOR encoder mode for power events.
// Configured for nanosecond-precision timestamps and deterministic encoding.
var plogEncMode cbor.EncMode

// plogDecMode is the CBOR decoder mode for power events.
var plogDecMode cbor.DecMode

func init() {
	var err error

	// Configure encoder for power events
	// Uses RFC3339Nano for nanosecond-precision timestamps
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano, // Nanosecond precision
	}
	plogEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create power log CBOR encoder mode: %v", err))
	}

	// Configure decoder for power events
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	plogDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create power log CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes an Event to CBOR bytes using integer keys for compactness.
func EncodeEvent(event Event) ([]byte, error) {
	return plogEncMode.Marshal(event)
}

// DecodeEvent decodes CBOR bytes into an Event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := plogDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder creates a CBOR encoder for power events that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return plogEncMode.NewEncoder(w)
}

// NewDecoder creates a CBOR decoder for power events that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return plogDecMode.NewDecoder(r)
}
