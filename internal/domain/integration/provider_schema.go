package integration

type providerKey struct {
	providerType ProviderType
	providerName string
}

// requiredFields lists, per provider, the settings that must be present in
// either ConfigData or Credentials before the provider can be enabled.
var requiredFields = map[providerKey][]string{
	{ProviderTypePayment, "payfast"}: {"merchantId", "merchantKey", "passphrase"},
	{ProviderTypePayment, "yoco"}:    {"publicKey", "secretKey"},
	{ProviderTypePayment, "ozow"}:    {"siteCode", "privateKey", "apiKey"},
	{ProviderTypePayment, "stripe"}:  {"publishableKey", "secretKey", "webhookSecret"},

	{ProviderTypeShipping, "courier-guy"}: {"apiKey", "accountNumber"},
	{ProviderTypeShipping, "shiplogic"}:   {"apiKey"},
	{ProviderTypeShipping, "pargo"}:       {"username", "password"},

	{ProviderTypeEmail, "resend"}:   {"apiKey", "fromEmail"},
	{ProviderTypeEmail, "sendgrid"}: {"apiKey", "fromEmail"},
	{ProviderTypeEmail, "smtp"}:     {"host", "port", "username", "password", "fromEmail"},

	{ProviderTypeAccounting, "xero"}: {"clientId", "clientSecret", "tenantId"},
	{ProviderTypeAccounting, "sage"}: {"apiKey", "companyId"},

	{ProviderTypeMarketplace, "takealot"}: {"apiKey", "sellerId"},
	{ProviderTypeMarketplace, "amazon"}:   {"sellerId", "marketplaceId", "clientId", "clientSecret", "refreshToken"},
}

// RequiredFields returns the required setting names for a provider. Unknown
// providers have none.
func RequiredFields(providerType ProviderType, providerName string) []string {
	fields := requiredFields[providerKey{providerType, providerName}]
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// MissingRequiredFields returns the required fields found in neither
// configData nor credentials, in schema order. The mock provider never has
// missing fields.
func MissingRequiredFields(providerType ProviderType, providerName string, configData, credentials Settings) []string {
	if providerName == MockProviderName {
		return nil
	}
	var missing []string
	for _, field := range requiredFields[providerKey{providerType, providerName}] {
		if configData.Has(field) || credentials.Has(field) {
			continue
		}
		missing = append(missing, field)
	}
	return missing
}

// ValidateForEnable returns a *MissingFieldsError when c cannot be enabled.
func (c *ProviderConfig) ValidateForEnable() error {
	missing := MissingRequiredFields(c.ProviderType, c.ProviderName, c.ConfigData, c.Credentials)
	if len(missing) == 0 {
		return nil
	}
	return &MissingFieldsError{
		ProviderType: c.ProviderType,
		ProviderName: c.ProviderName,
		Missing:      missing,
	}
}
