package domain

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/big"
	"math/bits"
	"strings"
)

var (
	ErrorInvalidAmount = fmt.Errorf("invalid amount")
)

var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// Uint128 is an unsigned 128-bit amount. It is serialized as a decimal string.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

func NewUint128(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// ParseUint128 reads a base-10 string.
func ParseUint128(s string) (Uint128, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Uint128{}, ErrorInvalidAmount
	}
	value, ok := new(big.Int).SetString(s, 10)
	if !ok || value.Sign() < 0 {
		return Uint128{}, fmt.Errorf("%w: %q", ErrorInvalidAmount, s)
	}
	if value.Cmp(maxUint128) > 0 {
		return Uint128{}, fmt.Errorf("%w: %q", ErrorOverflow, s)
	}
	return Uint128FromBig(value), nil
}

// Uint128FromBig truncates v to its lowest 128 bits.
func Uint128FromBig(v *big.Int) Uint128 {
	var buf [16]byte
	v.FillBytes(buf[:])
	return Uint128FromBytes(buf[:])
}

func Uint128FromBytes(b []byte) Uint128 {
	return Uint128{
		Hi: binary.BigEndian.Uint64(b[:8]),
		Lo: binary.BigEndian.Uint64(b[8:16]),
	}
}

// Bytes returns the 16-byte big-endian form, which sorts the same way the numbers do.
func (u Uint128) Bytes() []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[:8], u.Hi)
	binary.BigEndian.PutUint64(buf[8:], u.Lo)
	return buf
}

func (u Uint128) Big() *big.Int {
	return new(big.Int).SetBytes(u.Bytes())
}

func (u Uint128) IsZero() bool {
	return u.Hi == 0 && u.Lo == 0
}

// IsUint64 reports whether u fits into 64 bits.
func (u Uint128) IsUint64() bool {
	return u.Hi == 0
}

func (u Uint128) Cmp(o Uint128) int {
	switch {
	case u.Hi < o.Hi:
		return -1
	case u.Hi > o.Hi:
		return 1
	case u.Lo < o.Lo:
		return -1
	case u.Lo > o.Lo:
		return 1
	}
	return 0
}

// CheckedAdd never wraps; it fails with ErrorOverflow instead.
func (u Uint128) CheckedAdd(o Uint128) (Uint128, error) {
	lo, carry := bits.Add64(u.Lo, o.Lo, 0)
	hi, carry := bits.Add64(u.Hi, o.Hi, carry)
	if carry != 0 {
		return Uint128{}, ErrorOverflow
	}
	return Uint128{Hi: hi, Lo: lo}, nil
}

func (u Uint128) String() string {
	if u.Hi == 0 {
		return fmt.Sprintf("%d", u.Lo)
	}
	return u.Big().String()
}

func (u Uint128) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

func (u *Uint128) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseUint128(s)
	if err != nil {
		return err
	}
	*u = v
	return nil
}
