package paymentsource

import "errors"

var ErrPaymentSourceNotFound = errors.New("payment source not found")
