package enums

import "slices"

// PaymentMethodType enumerates the payment rails accepted by bodegones.
type PaymentMethodType string

const (
	PaymentMethodTypePagoMovil     PaymentMethodType = "pago_movil"
	PaymentMethodTypeZelle         PaymentMethodType = "zelle"
	PaymentMethodTypeTransferencia PaymentMethodType = "transferencia"
	PaymentMethodTypeEfectivo      PaymentMethodType = "efectivo"
	PaymentMethodTypePuntoDeVenta  PaymentMethodType = "punto_de_venta"
	PaymentMethodTypeBinance       PaymentMethodType = "binance"
)

var paymentMethodTypes = []PaymentMethodType{
	PaymentMethodTypePagoMovil,
	PaymentMethodTypeZelle,
	PaymentMethodTypeTransferencia,
	PaymentMethodTypeEfectivo,
	PaymentMethodTypePuntoDeVenta,
	PaymentMethodTypeBinance,
}

func (p PaymentMethodType) String() string { return string(p) }

func (p PaymentMethodType) IsValid() bool { return slices.Contains(paymentMethodTypes, p) }

func ParsePaymentMethodType(value string) (PaymentMethodType, error) {
	return parse(paymentMethodTypes, value, "payment method type")
}
