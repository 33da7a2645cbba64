package payment

import "errors"

var (
	ErrEmptyName = errors.New("payment method name is empty")
	ErrInUse     = errors.New("payment method is used by records")
)

// Method is a way of paying (WeChat, Alipay, Cash, ...). Names are unique.
type Method struct {
	ID   int64
	Name string
}
