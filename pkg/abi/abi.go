// Package abi provides a minimal encode/decode layer for contract call
// messages. spec.md §1 calls full ABI encoding, BOC parsing, and TVC image
// handling out of scope for the message monitor core; this package fills in
// just enough of that surface for pkg/txprocessing to build a
// messaging.MonitoredMessage from a function call.
//
// No example in the retrieval pack models TON's TVM-cell wire format, so
// the wire encoding here is a deliberately simple length-prefixed binary
// envelope rather than a faithful bag-of-cells serializer (see DESIGN.md).
package abi

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// FunctionCall is the caller-facing description of a contract invocation:
// which function to call and its named parameters.
type FunctionCall struct {
	Function string
	Params   map[string]any
}

// Message is the encoded envelope ready to become a
// messaging.MonitoredMessage's wire form.
type Message struct {
	Boc  []byte
	Hash string
}

// Encode serializes a FunctionCall into a wire Message. The envelope is
// [4-byte big-endian length][canonical JSON body]; the hash is SHA-256 over
// that same body, which is what Hash recomputes. The reference
// SdkServices.MessageHash (pkg/sdkservices/memory) hashes the whole Boc,
// length prefix included, so its hash differs from this one.
func Encode(call FunctionCall) (Message, error) {
	body, err := canonicalJSON(call)
	if err != nil {
		return Message{}, fmt.Errorf("abi: encode %q: %w", call.Function, err)
	}

	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.BigEndian, uint32(len(body))); err != nil {
		return Message{}, fmt.Errorf("abi: encode %q: %w", call.Function, err)
	}
	buf.Write(body)

	sum := sha256.Sum256(body)
	return Message{Boc: buf.Bytes(), Hash: fmt.Sprintf("%x", sum)}, nil
}

// Decode is the inverse of Encode: it recovers the FunctionCall from a
// wire-form Boc.
func Decode(boc []byte) (FunctionCall, error) {
	if len(boc) < 4 {
		return FunctionCall{}, fmt.Errorf("abi: decode: message too short (%d bytes)", len(boc))
	}
	length := binary.BigEndian.Uint32(boc[:4])
	body := boc[4:]
	if uint32(len(body)) != length {
		return FunctionCall{}, fmt.Errorf("abi: decode: length prefix %d does not match body %d", length, len(body))
	}

	var w wireCall
	if err := json.Unmarshal(body, &w); err != nil {
		return FunctionCall{}, fmt.Errorf("abi: decode: %w", err)
	}
	return FunctionCall{Function: w.Function, Params: w.Params}, nil
}

// Hash recomputes the canonical hash for a wire-form message, independent
// of Encode, the way a real SdkServices.MessageHash would: by parsing the
// body back out and re-deriving the digest over its canonical form, so
// byte-identical re-encodings of an equivalent call always hash the same.
func Hash(boc []byte) (string, error) {
	call, err := Decode(boc)
	if err != nil {
		return "", err
	}
	body, err := canonicalJSON(call)
	if err != nil {
		return "", fmt.Errorf("abi: hash: %w", err)
	}
	sum := sha256.Sum256(body)
	return fmt.Sprintf("%x", sum), nil
}

// wireCall is the JSON shape Encode/Decode agree on.
type wireCall struct {
	Function string         `json:"function"`
	Params   map[string]any `json:"params"`
}

// canonicalJSON marshals a FunctionCall with parameter keys in sorted
// order so the same logical call always produces the same bytes, and thus
// the same hash, regardless of map iteration order.
func canonicalJSON(call FunctionCall) ([]byte, error) {
	// encoding/json already sorts map keys when marshaling, which is what
	// gives us canonical output here.
	return json.Marshal(wireCall{Function: call.Function, Params: call.Params})
}
