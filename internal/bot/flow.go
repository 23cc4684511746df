package bot

// FlowConfig parameterizes the order flow: whether a catalog item is
// selected, the email domain restriction, the phone digit count, and the
// accepted payment methods.
type FlowConfig struct {
	// CatalogEnabled inserts the item-selection step after a category is
	// chosen. When false the first answer after the category is the name.
	CatalogEnabled bool
	// EmailDomain is the required literal suffix of the email answer.
	EmailDomain string
	// PhoneDigits is the exact digit count for both phone answers.
	PhoneDigits int
	// PaymentMethods is the accepted set, in keyboard order.
	PaymentMethods []string
	// CashOnDelivery names the method that skips the transaction-id step.
	CashOnDelivery string
}

func DefaultFlowConfig() FlowConfig {
	return FlowConfig{
		CatalogEnabled: true,
		EmailDomain:    "@gmail.com",
		PhoneDigits:    11,
		PaymentMethods: []string{"Bkash", "Nagad", "Rocket", "Cash on Delivery"},
		CashOnDelivery: "Cash on Delivery",
	}
}
