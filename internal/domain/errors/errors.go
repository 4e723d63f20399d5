package errors

import (
	"errors"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrItemInactive      = errors.New("item is inactive")
	ErrInvalidItem       = errors.New("invalid item")
	ErrStockConflict     = errors.New("stock was modified concurrently")
	ErrBatchNotFound     = errors.New("sale batch not found")
	ErrTransactionFailed = errors.New("transaction failed")
)
