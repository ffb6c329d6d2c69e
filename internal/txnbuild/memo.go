package txnbuild

import "github.com/stellar-txkit/internal/xdr"

// MaxMemoTextLength is the longest MEMO_TEXT in bytes.
const MaxMemoTextLength = 28

// Memo is one of MemoText, MemoID, MemoHash or MemoReturn. A nil Memo is
// MEMO_NONE.
type Memo interface {
	ToXDR() (xdr.Memo, error)
}

type (
	MemoText   string
	MemoID     uint64
	MemoHash   [32]byte
	MemoReturn [32]byte
)

func (m MemoText) ToXDR() (xdr.Memo, error) {
	if len(m) > MaxMemoTextLength {
		return xdr.Memo{}, ErrMemoTooLong.Withf("memo text is %d bytes", len(m))
	}
	s := string(m)
	return xdr.Memo{Type: xdr.MemoTypeMemoText, Text: &s}, nil
}

func (m MemoID) ToXDR() (xdr.Memo, error) {
	id := uint64(m)
	return xdr.Memo{Type: xdr.MemoTypeMemoId, ID: &id}, nil
}

func (m MemoHash) ToXDR() (xdr.Memo, error) {
	h := xdr.Hash(m)
	return xdr.Memo{Type: xdr.MemoTypeMemoHash, Hash: &h}, nil
}

func (m MemoReturn) ToXDR() (xdr.Memo, error) {
	h := xdr.Hash(m)
	return xdr.Memo{Type: xdr.MemoTypeMemoReturn, RetHash: &h}, nil
}

func memoToXDR(m Memo) (xdr.Memo, error) {
	if m == nil {
		return xdr.Memo{Type: xdr.MemoTypeMemoNone}, nil
	}
	return m.ToXDR()
}

func memoFromXDR(x xdr.Memo) (Memo, error) {
	switch x.Type {
	case xdr.MemoTypeMemoNone:
		return nil, nil
	case xdr.MemoTypeMemoText:
		return MemoText(*x.Text), nil
	case xdr.MemoTypeMemoId:
		return MemoID(*x.ID), nil
	case xdr.MemoTypeMemoHash:
		return MemoHash(*x.Hash), nil
	case xdr.MemoTypeMemoReturn:
		return MemoReturn(*x.RetHash), nil
	}
	return nil, ErrInvalidOperation.Withf("memo type %s", x.Type)
}
