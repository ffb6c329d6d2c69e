// Package xdr implements the Stellar profile of the XDR binary encoding
// (RFC 4506) and the ledger, transaction and contract types built on it.
//
// Every type encodes itself with EncodeTo and decodes with DecodeFrom. The
// primitives go through github.com/stellar/go-xdr/xdr3. The Decoder works
// over an in-memory byte slice so that lengths read from the wire can be
// checked against the bytes actually available before anything is allocated.
package xdr

import (
	"bytes"
	"encoding/base64"
	"errors"
	"math"

	xdr3 "github.com/stellar/go-xdr/xdr3"

	"github.com/stellar-txkit/internal/sdkerr"
)

// MaxDepth bounds nesting of recursive types (SCVal, ClaimPredicate,
// SorobanAuthorizedInvocation) while decoding.
const MaxDepth = 500

// Unbounded marks variable-length opaque, string and array fields that have
// no declared maximum.
const Unbounded = -1

var (
	ErrUnexpectedEOF       = sdkerr.New(sdkerr.KindDecode, "xdr_unexpected_eof", "unexpected end of input")
	ErrNonZeroPadding      = sdkerr.New(sdkerr.KindDecode, "xdr_nonzero_padding", "padding bytes must be zero")
	ErrInvalidBool         = sdkerr.New(sdkerr.KindDecode, "xdr_invalid_bool", "boolean must be 0 or 1")
	ErrInvalidDiscriminant = sdkerr.New(sdkerr.KindDecode, "xdr_invalid_discriminant", "unknown union or enum value")
	ErrLengthExceeded      = sdkerr.New(sdkerr.KindDecode, "xdr_length_exceeded", "length exceeds declared maximum")
	ErrTrailingBytes       = sdkerr.New(sdkerr.KindDecode, "xdr_trailing_bytes", "input not fully consumed")
	ErrMaxDepth            = sdkerr.New(sdkerr.KindDecode, "xdr_max_depth", "maximum nesting depth exceeded")
	ErrInvalidBase64       = sdkerr.New(sdkerr.KindDecode, "xdr_invalid_base64", "invalid base64 input")

	// ErrInvalidValue is returned when encoding a value that cannot be
	// represented, such as a union whose selected arm is nil.
	ErrInvalidValue = sdkerr.New(sdkerr.KindValidation, "xdr_invalid_value", "value cannot be encoded")
)

// Encodable is implemented by every XDR type.
type Encodable interface {
	EncodeTo(e *Encoder) error
}

// Decodable is implemented by pointers to every XDR type.
type Decodable interface {
	DecodeFrom(d *Decoder) error
}

// Encoder appends XDR encoded values to an in-memory buffer through an
// xdr3.Encoder. Writes to a bytes.Buffer cannot fail, so the primitive
// writers return nothing.
type Encoder struct {
	buf bytes.Buffer
	enc *xdr3.Encoder
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	e := &Encoder{}
	e.buf.Grow(256)
	e.enc = xdr3.NewEncoder(&e.buf)
	return e
}

// Bytes returns the encoded bytes. The slice aliases the encoder's buffer.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

func (e *Encoder) EncodeUint32(v uint32) {
	_, _ = e.enc.EncodeUint(v)
}

func (e *Encoder) EncodeInt32(v int32) {
	_, _ = e.enc.EncodeInt(v)
}

func (e *Encoder) EncodeUint64(v uint64) {
	_, _ = e.enc.EncodeUhyper(v)
}

func (e *Encoder) EncodeInt64(v int64) {
	_, _ = e.enc.EncodeHyper(v)
}

func (e *Encoder) EncodeBool(v bool) {
	_, _ = e.enc.EncodeBool(v)
}

// EncodeFixedOpaque writes exactly n bytes plus padding.
func (e *Encoder) EncodeFixedOpaque(b []byte, n int) error {
	if len(b) != n {
		return ErrInvalidValue.Withf("fixed opaque: expected %d bytes, got %d", n, len(b))
	}
	_, err := e.enc.EncodeFixedOpaque(b)
	return encodeError(err)
}

// EncodeOpaque writes a length-prefixed byte string. max is the declared
// maximum or Unbounded.
func (e *Encoder) EncodeOpaque(b []byte, max int) error {
	if max != Unbounded && len(b) > max {
		return ErrInvalidValue.Withf("opaque of %d bytes exceeds maximum %d", len(b), max)
	}
	if len(b) > math.MaxUint32 {
		return ErrInvalidValue.Withf("opaque too large")
	}
	_, err := e.enc.EncodeOpaque(b)
	return encodeError(err)
}

// EncodeString writes s as a length-prefixed byte string.
func (e *Encoder) EncodeString(s string, max int) error {
	if max != Unbounded && len(s) > max {
		return ErrInvalidValue.Withf("string of %d bytes exceeds maximum %d", len(s), max)
	}
	_, err := e.enc.EncodeString(s)
	return encodeError(err)
}

// EncodeArrayLen writes an element count after checking it against max.
func (e *Encoder) EncodeArrayLen(n, max int) error {
	if max != Unbounded && n > max {
		return ErrInvalidValue.Withf("array of %d elements exceeds maximum %d", n, max)
	}
	e.EncodeUint32(uint32(n))
	return nil
}

func encodeError(err error) error {
	if err == nil {
		return nil
	}
	return ErrInvalidValue.Wrap(err)
}

// Decoder reads XDR values from a byte slice through an xdr3.Decoder bounded
// by the input length.
type Decoder struct {
	r        *bytes.Reader
	dec      *xdr3.Decoder
	size     int
	depth    int
	maxDepth int
}

// NewDecoder returns a decoder positioned at the start of b.
func NewDecoder(b []byte) *Decoder {
	r := bytes.NewReader(b)
	return &Decoder{
		r:        r,
		dec:      xdr3.NewDecoderWithOptions(r, xdr3.DecodeOptions{MaxDepth: MaxDepth, MaxInputLen: len(b)}),
		size:     len(b),
		maxDepth: MaxDepth,
	}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return d.r.Len()
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int {
	return d.size - d.r.Len()
}

// decodeError maps an xdr3 failure at offset to the package sentinels.
func decodeError(err error, offset int) error {
	var ue *xdr3.UnmarshalError
	if !errors.As(err, &ue) {
		return ErrUnexpectedEOF.Withf("at offset %d", offset).Wrap(err)
	}
	switch ue.ErrorCode {
	case xdr3.ErrIO:
		// Short reads carry the io error; a bad padding byte carries none.
		if ue.Err == nil {
			return ErrNonZeroPadding.Withf("at offset %d", offset).Wrap(ue)
		}
		return ErrUnexpectedEOF.Withf("at offset %d", offset).Wrap(ue)
	case xdr3.ErrBadEnumValue:
		return ErrInvalidBool.Withf("got %v at offset %d", ue.Value, offset).Wrap(ue)
	case xdr3.ErrOverflow:
		return ErrLengthExceeded.Withf("at offset %d", offset).Wrap(ue)
	case xdr3.ErrMaxDecodingDepth:
		return ErrMaxDepth.Wrap(ue)
	}
	return ErrInvalidDiscriminant.Withf("at offset %d", offset).Wrap(ue)
}

func (d *Decoder) DecodeUint32() (uint32, error) {
	off := d.Offset()
	v, _, err := d.dec.DecodeUint()
	if err != nil {
		return 0, decodeError(err, off)
	}
	return v, nil
}

func (d *Decoder) DecodeInt32() (int32, error) {
	off := d.Offset()
	v, _, err := d.dec.DecodeInt()
	if err != nil {
		return 0, decodeError(err, off)
	}
	return v, nil
}

func (d *Decoder) DecodeUint64() (uint64, error) {
	off := d.Offset()
	v, _, err := d.dec.DecodeUhyper()
	if err != nil {
		return 0, decodeError(err, off)
	}
	return v, nil
}

func (d *Decoder) DecodeInt64() (int64, error) {
	off := d.Offset()
	v, _, err := d.dec.DecodeHyper()
	if err != nil {
		return 0, decodeError(err, off)
	}
	return v, nil
}

// DecodeBool accepts only 0 and 1.
func (d *Decoder) DecodeBool() (bool, error) {
	off := d.Offset()
	v, _, err := d.dec.DecodeBool()
	if err != nil {
		return false, decodeError(err, off)
	}
	return v, nil
}

// DecodeFixedOpaqueInto fills dst and consumes the padding.
func (d *Decoder) DecodeFixedOpaqueInto(dst []byte) error {
	off := d.Offset()
	if _, err := d.dec.DecodeFixedOpaqueInplace(dst); err != nil {
		return decodeError(err, off)
	}
	return nil
}

// DecodeOpaque reads a length-prefixed byte string. A zero length yields an
// empty, non-nil slice.
func (d *Decoder) DecodeOpaque(max int) ([]byte, error) {
	n, err := d.decodeLength(max)
	if err != nil {
		return nil, err
	}
	off := d.Offset()
	b, _, err := d.dec.DecodeFixedOpaque(int32(n))
	if err != nil {
		return nil, decodeError(err, off)
	}
	return b, nil
}

// DecodeString reads a length-prefixed string.
func (d *Decoder) DecodeString(max int) (string, error) {
	n, err := d.decodeLength(max)
	if err != nil {
		return "", err
	}
	off := d.Offset()
	b, _, err := d.dec.DecodeFixedOpaque(int32(n))
	if err != nil {
		return "", decodeError(err, off)
	}
	return string(b), nil
}

// DecodeArrayLen reads an element count. The count must not exceed max and
// the remaining input must be able to hold count elements of at least
// minElemSize bytes each.
func (d *Decoder) DecodeArrayLen(max, minElemSize int) (int, error) {
	v, err := d.DecodeUint32()
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt32 {
		return 0, ErrLengthExceeded.Withf("array count %d", v)
	}
	n := int(v)
	if max != Unbounded && n > max {
		return 0, ErrLengthExceeded.Withf("array count %d exceeds maximum %d", n, max)
	}
	if minElemSize > 0 && n > d.Remaining()/minElemSize {
		return 0, ErrUnexpectedEOF.Withf("array count %d cannot fit in %d remaining bytes", n, d.Remaining())
	}
	return n, nil
}

// decodeLength reads an opaque or string length and checks it against max
// and the remaining input before anything is allocated.
func (d *Decoder) decodeLength(max int) (int, error) {
	v, err := d.DecodeUint32()
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt32 {
		return 0, ErrLengthExceeded.Withf("length %d", v)
	}
	n := int(v)
	if max != Unbounded && n > max {
		return 0, ErrLengthExceeded.Withf("length %d exceeds maximum %d", n, max)
	}
	if n > d.Remaining() {
		return 0, ErrUnexpectedEOF.Withf("length %d exceeds %d remaining bytes", n, d.Remaining())
	}
	return n, nil
}

// enter must be paired with leave around the decoding of a recursive type.
func (d *Decoder) enter() error {
	d.depth++
	if d.depth > d.maxDepth {
		return ErrMaxDepth.Withf("depth %d", d.depth)
	}
	return nil
}

func (d *Decoder) leave() {
	d.depth--
}

// Marshal encodes v.
func Marshal(v Encodable) ([]byte, error) {
	e := NewEncoder()
	if err := v.EncodeTo(e); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Unmarshal decodes b into v. All of b must be consumed.
func Unmarshal(b []byte, v Decodable) error {
	d := NewDecoder(b)
	if err := v.DecodeFrom(d); err != nil {
		return err
	}
	if d.Remaining() != 0 {
		return ErrTrailingBytes.Withf("%d bytes left", d.Remaining())
	}
	return nil
}

// MarshalBase64 encodes v and returns standard base64.
func MarshalBase64(v Encodable) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// UnmarshalBase64 decodes standard base64 input into v.
func UnmarshalBase64(s string, v Decodable) error {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return ErrInvalidBase64.Wrap(err)
	}
	return Unmarshal(b, v)
}

// enumNames maps the wire value of an enum to its .x constant name.
type enumNames map[int32]string

func (n enumNames) valid(v int32) bool {
	_, ok := n[v]
	return ok
}

func (n enumNames) encode(e *Encoder, v int32, what string) error {
	if !n.valid(v) {
		return ErrInvalidValue.Withf("%s: unknown value %d", what, v)
	}
	e.EncodeInt32(v)
	return nil
}

func (n enumNames) decode(d *Decoder, what string) (int32, error) {
	v, err := d.DecodeInt32()
	if err != nil {
		return 0, err
	}
	if !n.valid(v) {
		return 0, ErrInvalidDiscriminant.Withf("%s: %d", what, v)
	}
	return v, nil
}

func (n enumNames) name(v int32) string {
	if s, ok := n[v]; ok {
		return s
	}
	return "UNKNOWN"
}

// decoderPtr constrains a pointer to T that can decode itself.
type decoderPtr[T any] interface {
	*T
	Decodable
}

func encodeOptional[T Encodable](e *Encoder, v *T) error {
	if v == nil {
		e.EncodeBool(false)
		return nil
	}
	e.EncodeBool(true)
	return (*v).EncodeTo(e)
}

func decodeOptional[T any, P decoderPtr[T]](d *Decoder) (*T, error) {
	present, err := d.DecodeBool()
	if err != nil || !present {
		return nil, err
	}
	v := P(new(T))
	if err := v.DecodeFrom(d); err != nil {
		return nil, err
	}
	return (*T)(v), nil
}

func encodeArray[T Encodable](e *Encoder, items []T, max int) error {
	if err := e.EncodeArrayLen(len(items), max); err != nil {
		return err
	}
	for i := range items {
		if err := items[i].EncodeTo(e); err != nil {
			return err
		}
	}
	return nil
}

// decodeArray decodes a counted array. A zero count yields nil.
func decodeArray[T any, P decoderPtr[T]](d *Decoder, max, minElemSize int) ([]T, error) {
	n, err := d.DecodeArrayLen(max, minElemSize)
	if err != nil || n == 0 {
		return nil, err
	}
	out := make([]T, n)
	for i := range out {
		if err := P(&out[i]).DecodeFrom(d); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func encodeOptionalUint32(e *Encoder, v *uint32) {
	e.EncodeBool(v != nil)
	if v != nil {
		e.EncodeUint32(*v)
	}
}

func decodeOptionalUint32(d *Decoder) (*uint32, error) {
	present, err := d.DecodeBool()
	if err != nil || !present {
		return nil, err
	}
	v, err := d.DecodeUint32()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// armMissing reports a union whose selected arm pointer is nil.
func armMissing(union, arm string) error {
	return ErrInvalidValue.Withf("%s: arm %s is nil", union, arm)
}
