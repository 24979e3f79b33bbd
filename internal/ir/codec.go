package ir

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Nodes with a Data interface encode as a fixed-size array
// [kind, (type,) span, data]; the kind selects the concrete payload on decode.

var (
	_ msgpack.CustomEncoder = (*Expr)(nil)
	_ msgpack.CustomDecoder = (*Expr)(nil)
	_ msgpack.CustomEncoder = (*Stmt)(nil)
	_ msgpack.CustomDecoder = (*Stmt)(nil)
	_ msgpack.CustomEncoder = Decl{}
	_ msgpack.CustomDecoder = (*Decl)(nil)
)

// EncodeMsgpack implements msgpack.CustomEncoder.
func (e *Expr) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(4); err != nil {
		return err
	}
	if err := enc.EncodeUint8(uint8(e.Kind)); err != nil {
		return err
	}
	if err := enc.Encode(&e.Type); err != nil {
		return err
	}
	if err := enc.Encode(&e.Span); err != nil {
		return err
	}
	return enc.Encode(e.Data)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (e *Expr) DecodeMsgpack(dec *msgpack.Decoder) error {
	if err := expectArray(dec, 4, "expr"); err != nil {
		return err
	}
	k, err := dec.DecodeUint8()
	if err != nil {
		return err
	}
	e.Kind = ExprKind(k)
	if err := dec.Decode(&e.Type); err != nil {
		return err
	}
	if err := dec.Decode(&e.Span); err != nil {
		return err
	}
	e.Data, err = decodeExprData(dec, e.Kind)
	return err
}

func decodeExprData(dec *msgpack.Decoder, kind ExprKind) (ExprData, error) {
	switch kind {
	case ExprConst:
		return decodeAs[ConstData](dec)
	case ExprGetValue:
		return decodeAs[GetValueData](dec)
	case ExprSetValue:
		return decodeAs[SetValueData](dec)
	case ExprGetProperty:
		return decodeAs[GetPropertyData](dec)
	case ExprSetProperty:
		return decodeAs[SetPropertyData](dec)
	case ExprGetField:
		return decodeAs[GetFieldData](dec)
	case ExprSetField:
		return decodeAs[SetFieldData](dec)
	case ExprCall:
		return decodeAs[CallData](dec)
	case ExprNew:
		return decodeAs[NewData](dec)
	case ExprTypeOp:
		return decodeAs[TypeOpData](dec)
	case ExprWhen:
		return decodeAs[WhenData](dec)
	case ExprSubject:
		return decodeAs[SubjectData](dec)
	case ExprBlock:
		return decodeAs[BlockData](dec)
	case ExprReturn:
		return decodeAs[ReturnData](dec)
	case ExprBreak:
		return decodeAs[BreakData](dec)
	case ExprContinue:
		return decodeAs[ContinueData](dec)
	case ExprThrow:
		return decodeAs[ThrowData](dec)
	case ExprTry:
		return decodeAs[TryData](dec)
	case ExprLambda:
		return decodeAs[LambdaData](dec)
	case ExprStringConcat:
		return decodeAs[StringConcatData](dec)
	case ExprListLit:
		return decodeAs[ListLitData](dec)
	case ExprBinary:
		return decodeAs[BinaryData](dec)
	case ExprUnary:
		return decodeAs[UnaryData](dec)
	case ExprElvis:
		return decodeAs[ElvisData](dec)
	case ExprNotNull:
		return decodeAs[NotNullData](dec)
	case ExprThis:
		return decodeAs[ThisData](dec)
	case ExprGetObject:
		return decodeAs[GetObjectData](dec)
	case ExprGetEnumEntry:
		return decodeAs[GetEnumEntryData](dec)
	default:
		return nil, fmt.Errorf("ir: unknown expression kind %d", kind)
	}
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (s *Stmt) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(3); err != nil {
		return err
	}
	if err := enc.EncodeUint8(uint8(s.Kind)); err != nil {
		return err
	}
	if err := enc.Encode(&s.Span); err != nil {
		return err
	}
	return enc.Encode(s.Data)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (s *Stmt) DecodeMsgpack(dec *msgpack.Decoder) error {
	if err := expectArray(dec, 3, "stmt"); err != nil {
		return err
	}
	k, err := dec.DecodeUint8()
	if err != nil {
		return err
	}
	s.Kind = StmtKind(k)
	if err := dec.Decode(&s.Span); err != nil {
		return err
	}
	switch s.Kind {
	case StmtExpr:
		s.Data, err = decodeAs[ExprStmtData](dec)
	case StmtVar:
		s.Data, err = decodeAs[VarData](dec)
	case StmtWhile:
		s.Data, err = decodeAs[WhileData](dec)
	case StmtDoWhile:
		s.Data, err = decodeAs[DoWhileData](dec)
	case StmtForRange:
		s.Data, err = decodeAs[ForRangeData](dec)
	case StmtForEach:
		s.Data, err = decodeAs[ForEachData](dec)
	case StmtBlock:
		s.Data, err = decodeAs[BlockStmtData](dec)
	case StmtLocalFunc:
		s.Data, err = decodeAs[LocalFuncData](dec)
	default:
		err = fmt.Errorf("ir: unknown statement kind %d", k)
	}
	return err
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (d Decl) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.EncodeUint8(uint8(d.Kind)); err != nil {
		return err
	}
	return enc.Encode(d.Data)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (d *Decl) DecodeMsgpack(dec *msgpack.Decoder) error {
	if err := expectArray(dec, 2, "decl"); err != nil {
		return err
	}
	k, err := dec.DecodeUint8()
	if err != nil {
		return err
	}
	d.Kind = DeclKind(k)
	switch d.Kind {
	case DeclClass:
		d.Data, err = decodeRef[Class](dec)
	case DeclFunc:
		d.Data, err = decodeRef[Func](dec)
	case DeclProperty:
		d.Data, err = decodeRef[Property](dec)
	case DeclCtor:
		d.Data, err = decodeRef[Constructor](dec)
	default:
		err = fmt.Errorf("ir: unknown declaration kind %d", k)
	}
	return err
}

// EncodeUnit serializes a unit.
func EncodeUnit(u *Unit) ([]byte, error) {
	return msgpack.Marshal(u)
}

// DecodeUnit deserializes a unit.
func DecodeUnit(b []byte) (*Unit, error) {
	var u Unit
	if err := msgpack.Unmarshal(b, &u); err != nil {
		return nil, fmt.Errorf("ir: decode unit: %w", err)
	}
	if u.Schema != SchemaVersion {
		return nil, fmt.Errorf("ir: unit %q has schema %d, want %d", u.Path, u.Schema, SchemaVersion)
	}
	return &u, nil
}

func expectArray(dec *msgpack.Decoder, n int, what string) error {
	got, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if got != n {
		return fmt.Errorf("ir: %s: expected %d-element array, got %d", what, n, got)
	}
	return nil
}

func decodeAs[T any](dec *msgpack.Decoder) (T, error) {
	var v T
	err := dec.Decode(&v)
	return v, err
}

func decodeRef[T any, P interface {
	*T
	DeclData
}](dec *msgpack.Decoder) (DeclData, error) {
	v := P(new(T))
	if err := dec.Decode(v); err != nil {
		return nil, err
	}
	return v, nil
}
