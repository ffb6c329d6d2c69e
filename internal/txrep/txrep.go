// Package txrep converts transaction envelopes to and from txrep, the
// line oriented `key: value` representation defined by SEP-0011.
//
// Keys follow the XDR field names. Arrays are written as `key.len` followed
// by `key[i]` entries, optional values as `key._present` followed by the
// value under the same key, and unions as `key.type` (`key.v` for versioned
// extensions) followed by the selected arm. Accounts and signers are
// strkeys, assets are `XLM` or `CODE:ISSUER`, strings are quoted and opaque
// data is hex.
package txrep

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/stellar-txkit/internal/sdkerr"
	"github.com/stellar-txkit/internal/xdr"
)

var (
	ErrSyntax       = sdkerr.New(sdkerr.KindDecode, "txrep_syntax", "malformed txrep line")
	ErrMissingField = sdkerr.New(sdkerr.KindDecode, "txrep_missing_field", "txrep field missing")
	ErrInvalidValue = sdkerr.New(sdkerr.KindDecode, "txrep_invalid_value", "invalid txrep value")
)

// lastRFC3339 is the first second of year 10000.
const lastRFC3339 = 253402300800

type union interface {
	SwitchFieldName() string
	ArmForSwitch(sw int32) (string, bool)
}

type enum interface {
	EnumNames() map[int32]string
}

var (
	unionType      = reflect.TypeFor[union]()
	enumType       = reflect.TypeFor[enum]()
	publicKeyType  = reflect.TypeFor[xdr.PublicKey]()
	muxedType      = reflect.TypeFor[xdr.MuxedAccount]()
	signerKeyType  = reflect.TypeFor[xdr.SignerKey]()
	assetType      = reflect.TypeFor[xdr.Asset]()
	assetCodeType  = reflect.TypeFor[xdr.AssetCode]()
	changeTrustTyp = reflect.TypeFor[xdr.ChangeTrustAsset]()
	trustLineType  = reflect.TypeFor[xdr.TrustLineAsset]()
	timePointType  = reflect.TypeFor[xdr.TimePoint]()
)

// FromEnvelope renders env as txrep. V0 envelopes are rendered as the
// equivalent v1 envelope.
func FromEnvelope(env xdr.TransactionEnvelope) (string, error) {
	if env.Type == xdr.EnvelopeTypeEnvelopeTypeTxV0 {
		if env.V0 == nil {
			return "", ErrInvalidValue.Withf("v0 envelope has no body")
		}
		env = xdr.TransactionEnvelope{
			Type: xdr.EnvelopeTypeEnvelopeTypeTx,
			V1:   &xdr.TransactionV1Envelope{Tx: env.V0.Tx.ToV1(), Signatures: env.V0.Signatures},
		}
	}
	var w writer
	if err := w.value("", reflect.ValueOf(env)); err != nil {
		return "", err
	}
	return w.b.String(), nil
}

// FromBase64 renders a base64 envelope as txrep.
func FromBase64(b64 string) (string, error) {
	var env xdr.TransactionEnvelope
	if err := xdr.UnmarshalBase64(b64, &env); err != nil {
		return "", errors.Wrap(err, "decoding envelope")
	}
	return FromEnvelope(env)
}

// ToEnvelope parses txrep text. Blank lines, lines starting with # and
// unknown keys are ignored.
func ToEnvelope(text string) (xdr.TransactionEnvelope, error) {
	r, err := parse(text)
	if err != nil {
		return xdr.TransactionEnvelope{}, err
	}
	var env xdr.TransactionEnvelope
	if err := r.value("", reflect.ValueOf(&env).Elem()); err != nil {
		return xdr.TransactionEnvelope{}, err
	}
	if unused := r.unused(); len(unused) > 0 {
		log.Debug().Strs("keys", unused).Msg("ignoring unknown txrep keys")
	}
	if _, err := xdr.Marshal(env); err != nil {
		return xdr.TransactionEnvelope{}, ErrInvalidValue.Withf("envelope does not encode").Wrap(err)
	}
	return env, nil
}

// ToBase64 parses txrep text into a base64 envelope.
func ToBase64(text string) (string, error) {
	env, err := ToEnvelope(text)
	if err != nil {
		return "", err
	}
	return xdr.MarshalBase64(env)
}

func fieldKey(prefix string, f reflect.StructField) string {
	name, opt, _ := strings.Cut(f.Tag.Get("txrep"), ",")
	if opt == "inline" {
		return prefix
	}
	if name == "" {
		name = lowerCamel(f.Name)
	}
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// lowerCamel maps a Go field name to its XDR name: ID becomes id and
// SeqNum becomes seqNum.
func lowerCamel(s string) string {
	if strings.ToUpper(s) == s {
		return strings.ToLower(s)
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func assetString(a xdr.Asset) (string, error) {
	if a.Type == xdr.AssetTypeAssetTypeNative {
		return "XLM", nil
	}
	issuer, ok := a.Issuer()
	if !ok || issuer.Address() == "" {
		return "", ErrInvalidValue.Withf("asset %s has no issuer", a.Type)
	}
	return a.Code() + ":" + issuer.Address(), nil
}

func parseAsset(s string) (xdr.Asset, error) {
	if s == "XLM" || s == "native" {
		return xdr.Asset{Type: xdr.AssetTypeAssetTypeNative}, nil
	}
	code, issuer, ok := strings.Cut(s, ":")
	if !ok {
		return xdr.Asset{}, errors.Errorf("asset %q is not CODE:ISSUER", s)
	}
	id, err := xdr.AddressToAccountID(issuer)
	if err != nil {
		return xdr.Asset{}, err
	}
	return xdr.NewCreditAsset(code, id)
}

type writer struct {
	b strings.Builder
}

func (w *writer) line(key, value string) {
	w.b.WriteString(key)
	w.b.WriteString(": ")
	w.b.WriteString(value)
	w.b.WriteByte('\n')
}

func (w *writer) compact(key string, v reflect.Value) (bool, error) {
	var s string
	switch v.Type() {
	case publicKeyType:
		s = v.Interface().(xdr.PublicKey).Address()
	case muxedType:
		s = v.Interface().(xdr.MuxedAccount).Address()
	case signerKeyType:
		s = v.Interface().(xdr.SignerKey).Address()
	case assetType:
		var err error
		if s, err = assetString(v.Interface().(xdr.Asset)); err != nil {
			return false, err
		}
	case assetCodeType:
		c := v.Interface().(xdr.AssetCode)
		switch {
		case c.AssetCode4 != nil:
			s = xdr.AssetCodeString(c.AssetCode4[:])
		case c.AssetCode12 != nil:
			s = xdr.AssetCodeString(c.AssetCode12[:])
		}
	case changeTrustTyp:
		a := v.Interface().(xdr.ChangeTrustAsset)
		if a.Type == xdr.AssetTypeAssetTypePoolShare {
			return false, nil
		}
		var err error
		if s, err = assetString(xdr.Asset{Type: a.Type, AlphaNum4: a.AlphaNum4, AlphaNum12: a.AlphaNum12}); err != nil {
			return false, err
		}
	case trustLineType:
		a := v.Interface().(xdr.TrustLineAsset)
		if a.Type == xdr.AssetTypeAssetTypePoolShare {
			return false, nil
		}
		var err error
		if s, err = assetString(xdr.Asset{Type: a.Type, AlphaNum4: a.AlphaNum4, AlphaNum12: a.AlphaNum12}); err != nil {
			return false, err
		}
	case timePointType:
		t := v.Uint()
		s = strconv.FormatUint(t, 10)
		if t != 0 && t < lastRFC3339 {
			s += " (" + time.Unix(int64(t), 0).UTC().Format(time.RFC3339) + ")"
		}
	default:
		return false, nil
	}
	if s == "" {
		return false, ErrInvalidValue.Withf("%s: empty %s", key, v.Type().Name())
	}
	w.line(key, s)
	return true, nil
}

func (w *writer) value(key string, v reflect.Value) error {
	if done, err := w.compact(key, v); done || err != nil {
		return err
	}
	t := v.Type()
	// Pointers first: *T has the method set of T, nil included.
	if t.Kind() != reflect.Pointer && t.Implements(unionType) {
		return w.union(key, v)
	}
	switch v.Kind() {
	case reflect.Pointer:
		w.line(key+"._present", strconv.FormatBool(!v.IsNil()))
		if v.IsNil() {
			return nil
		}
		return w.value(key, v.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if err := w.value(fieldKey(key, f), v.Field(i)); err != nil {
				return err
			}
		}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			w.line(key, hex.EncodeToString(v.Bytes()))
			return nil
		}
		w.line(key+".len", strconv.Itoa(v.Len()))
		for i := 0; i < v.Len(); i++ {
			if err := w.value(fmt.Sprintf("%s[%d]", key, i), v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Array:
		if t.Elem().Kind() != reflect.Uint8 {
			return ErrInvalidValue.Withf("%s: unsupported array %s", key, t)
		}
		b := make([]byte, v.Len())
		reflect.Copy(reflect.ValueOf(b), v)
		w.line(key, hex.EncodeToString(b))
	case reflect.String:
		w.line(key, strconv.Quote(v.String()))
	case reflect.Bool:
		w.line(key, strconv.FormatBool(v.Bool()))
	case reflect.Int32, reflect.Int64:
		if t.Implements(enumType) {
			name, ok := v.Interface().(enum).EnumNames()[int32(v.Int())]
			if !ok {
				return ErrInvalidValue.Withf("%s: unknown %s %d", key, t.Name(), v.Int())
			}
			w.line(key, name)
			return nil
		}
		w.line(key, strconv.FormatInt(v.Int(), 10))
	case reflect.Uint32, reflect.Uint64:
		w.line(key, strconv.FormatUint(v.Uint(), 10))
	default:
		return ErrInvalidValue.Withf("%s: unsupported type %s", key, t)
	}
	return nil
}

func (w *writer) union(key string, v reflect.Value) error {
	u := v.Interface().(union)
	sf, ok := v.Type().FieldByName(u.SwitchFieldName())
	if !ok {
		return ErrInvalidValue.Withf("%s: %s has no discriminant", key, v.Type().Name())
	}
	sw := v.FieldByIndex(sf.Index)
	if err := w.value(fieldKey(key, sf), sw); err != nil {
		return err
	}
	arm, ok := u.ArmForSwitch(int32(sw.Int()))
	if !ok {
		return ErrInvalidValue.Withf("%s: unknown %s discriminant %d", key, v.Type().Name(), sw.Int())
	}
	if arm == "" {
		return nil
	}
	af, _ := v.Type().FieldByName(arm)
	p := v.FieldByIndex(af.Index)
	if p.IsNil() {
		return ErrInvalidValue.Withf("%s: %s arm is not set", key, arm)
	}
	return w.value(fieldKey(key, af), p.Elem())
}

type reader struct {
	fields map[string]string
	used   map[string]bool
}

func parse(text string) (*reader, error) {
	fields := make(map[string]string)
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, ":")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, ErrSyntax.Withf("line %d: %q", i+1, line)
		}
		fields[k] = strings.TrimSpace(v)
	}
	return &reader{fields: fields, used: make(map[string]bool)}, nil
}

func (r *reader) raw(key string) (string, error) {
	s, ok := r.fields[key]
	if !ok {
		return "", ErrMissingField.Withf("%s", key)
	}
	r.used[key] = true
	return s, nil
}

// unused returns the keys never read, sorted.
func (r *reader) unused() []string {
	var out []string
	for k := range r.fields {
		if !r.used[k] {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// scalar returns the first token of the value; anything after it is a
// comment.
func (r *reader) scalar(key string) (string, error) {
	s, err := r.raw(key)
	if err != nil {
		return "", err
	}
	if tok, _, found := strings.Cut(s, " "); found {
		return tok, nil
	}
	return s, nil
}

func (r *reader) str(key string) (string, error) {
	s, err := r.raw(key)
	if err != nil {
		return "", err
	}
	q, err := strconv.QuotedPrefix(s)
	if err != nil {
		return "", ErrInvalidValue.Withf("%s: %s is not a quoted string", key, s)
	}
	out, err := strconv.Unquote(q)
	if err != nil {
		return "", ErrInvalidValue.Withf("%s: %s", key, s).Wrap(err)
	}
	return out, nil
}

func (r *reader) bool(key string) (bool, error) {
	s, err := r.scalar(key)
	if err != nil {
		return false, err
	}
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, ErrInvalidValue.Withf("%s: %q is not a bool", key, s)
}

func (r *reader) compact(key string, v reflect.Value) (bool, error) {
	var (
		out reflect.Value
		err error
	)
	switch v.Type() {
	case publicKeyType, muxedType, signerKeyType, assetType, assetCodeType:
	case changeTrustTyp, trustLineType:
		if _, ok := r.fields[key]; !ok {
			return false, nil
		}
	default:
		return false, nil
	}
	s, err := r.scalar(key)
	if err != nil {
		return false, err
	}

	switch v.Type() {
	case publicKeyType:
		var id xdr.AccountID
		id, err = xdr.AddressToAccountID(s)
		out = reflect.ValueOf(id)
	case muxedType:
		var m xdr.MuxedAccount
		m, err = xdr.AddressToMuxedAccount(s)
		out = reflect.ValueOf(m)
	case signerKeyType:
		var k xdr.SignerKey
		k, err = xdr.SignerKeyFromAddress(s)
		out = reflect.ValueOf(k)
	case assetType:
		var a xdr.Asset
		a, err = parseAsset(s)
		out = reflect.ValueOf(a)
	case assetCodeType:
		var c xdr.AssetCode
		c, err = parseAssetCode(s)
		out = reflect.ValueOf(c)
	case changeTrustTyp:
		var a xdr.Asset
		a, err = parseAsset(s)
		out = reflect.ValueOf(a.ToChangeTrustAsset())
	case trustLineType:
		var a xdr.Asset
		a, err = parseAsset(s)
		out = reflect.ValueOf(a.ToTrustLineAsset())
	}
	if err != nil {
		return false, ErrInvalidValue.Withf("%s: %q", key, s).Wrap(err)
	}
	v.Set(out)
	return true, nil
}

func parseAssetCode(s string) (xdr.AssetCode, error) {
	switch {
	case len(s) >= 1 && len(s) <= 4:
		var c xdr.AssetCode4
		copy(c[:], s)
		return xdr.AssetCode{Type: xdr.AssetTypeAssetTypeCreditAlphanum4, AssetCode4: &c}, nil
	case len(s) >= 5 && len(s) <= 12:
		var c xdr.AssetCode12
		copy(c[:], s)
		return xdr.AssetCode{Type: xdr.AssetTypeAssetTypeCreditAlphanum12, AssetCode12: &c}, nil
	}
	return xdr.AssetCode{}, errors.Errorf("asset code %q must be 1-12 characters", s)
}

func (r *reader) value(key string, v reflect.Value) error {
	if done, err := r.compact(key, v); done || err != nil {
		return err
	}
	t := v.Type()
	// Pointers first: *T has the method set of T, nil included.
	if t.Kind() != reflect.Pointer && t.Implements(unionType) {
		return r.union(key, v)
	}
	switch v.Kind() {
	case reflect.Pointer:
		present, err := r.bool(key + "._present")
		if err != nil {
			return err
		}
		if !present {
			v.Set(reflect.Zero(t))
			return nil
		}
		p := reflect.New(t.Elem())
		if err := r.value(key, p.Elem()); err != nil {
			return err
		}
		v.Set(p)
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if err := r.value(fieldKey(key, f), v.Field(i)); err != nil {
				return err
			}
		}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			b, err := r.hex(key)
			if err != nil {
				return err
			}
			v.SetBytes(b)
			return nil
		}
		n, err := r.length(key)
		if err != nil {
			return err
		}
		s := reflect.MakeSlice(t, n, n)
		for i := 0; i < n; i++ {
			if err := r.value(fmt.Sprintf("%s[%d]", key, i), s.Index(i)); err != nil {
				return err
			}
		}
		v.Set(s)
	case reflect.Array:
		if t.Elem().Kind() != reflect.Uint8 {
			return ErrInvalidValue.Withf("%s: unsupported array %s", key, t)
		}
		b, err := r.hex(key)
		if err != nil {
			return err
		}
		if len(b) != v.Len() {
			return ErrInvalidValue.Withf("%s: want %d bytes, got %d", key, v.Len(), len(b))
		}
		reflect.Copy(v, reflect.ValueOf(b))
	case reflect.String:
		s, err := r.str(key)
		if err != nil {
			return err
		}
		v.SetString(s)
	case reflect.Bool:
		b, err := r.bool(key)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int32, reflect.Int64:
		s, err := r.scalar(key)
		if err != nil {
			return err
		}
		if t.Implements(enumType) {
			return r.enum(key, s, v)
		}
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return ErrInvalidValue.Withf("%s: %q", key, s).Wrap(err)
		}
		v.SetInt(n)
	case reflect.Uint32, reflect.Uint64:
		s, err := r.scalar(key)
		if err != nil {
			return err
		}
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return ErrInvalidValue.Withf("%s: %q", key, s).Wrap(err)
		}
		v.SetUint(n)
	default:
		return ErrInvalidValue.Withf("%s: unsupported type %s", key, t)
	}
	return nil
}

func (r *reader) hex(key string) ([]byte, error) {
	s, err := r.scalar(key)
	if err != nil {
		return nil, err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidValue.Withf("%s: %q is not hex", key, s).Wrap(err)
	}
	return b, nil
}

func (r *reader) length(key string) (int, error) {
	s, err := r.scalar(key + ".len")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > len(r.fields) {
		return 0, ErrInvalidValue.Withf("%s.len: %q", key, s)
	}
	return n, nil
}

// enum accepts the XDR constant name or its numeric value.
func (r *reader) enum(key, s string, v reflect.Value) error {
	names := v.Interface().(enum).EnumNames()
	for n, name := range names {
		if name == s {
			v.SetInt(int64(n))
			return nil
		}
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return ErrInvalidValue.Withf("%s: unknown %s %q", key, v.Type().Name(), s)
	}
	if _, ok := names[int32(n)]; !ok {
		return ErrInvalidValue.Withf("%s: unknown %s %d", key, v.Type().Name(), n)
	}
	v.SetInt(n)
	return nil
}

func (r *reader) union(key string, v reflect.Value) error {
	u := v.Interface().(union)
	sf, ok := v.Type().FieldByName(u.SwitchFieldName())
	if !ok {
		return ErrInvalidValue.Withf("%s: %s has no discriminant", key, v.Type().Name())
	}
	sw := v.FieldByIndex(sf.Index)
	if err := r.value(fieldKey(key, sf), sw); err != nil {
		return err
	}
	arm, ok := u.ArmForSwitch(int32(sw.Int()))
	if !ok {
		return ErrInvalidValue.Withf("%s: %s does not accept discriminant %d", key, v.Type().Name(), sw.Int())
	}
	if arm == "" {
		return nil
	}
	af, _ := v.Type().FieldByName(arm)
	p := reflect.New(af.Type.Elem())
	if err := r.value(fieldKey(key, af), p.Elem()); err != nil {
		return err
	}
	v.FieldByIndex(af.Index).Set(p)
	return nil
}
