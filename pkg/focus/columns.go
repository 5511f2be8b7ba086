package focus

// FOCUS column names produced by the HCS mapping, in output order.
const (
	ColBillingAccountName           = "BillingAccountName"
	ColBillingAccountID             = "BillingAccountId"
	ColSubAccountName               = "SubAccountName"
	ColSubAccountID                 = "SubAccountId"
	ColSubChildAccountID            = "SubChildAccountId"
	ColSubChildAccountName          = "SubChildAccountName"
	ColRegion                       = "Region"
	ColAvailabilityZone             = "AvailabilityZone"
	ColResourceSpaceName            = "ResourceSpaceName"
	ColResourceSpaceID              = "ResourceSpaceId"
	ColResourceType                 = "ResourceType"
	ColResourceName                 = "ResourceName"
	ColResourceID                   = "ResourceId"
	ColEnterpriseProjectID          = "EnterpriseProjectId"
	ColTags                         = "Tags"
	ColApplicationID                = "ApplicationId"
	ColApplicationName              = "ApplicationName"
	ColChargePeriodStart            = "ChargePeriodStart"
	ColChargePeriodEnd              = "ChargePeriodEnd"
	ColMeteringMetric               = "MeteringMetric"
	ColMeteringValue                = "MeteringValue"
	ColMeteringUnitName             = "MeteringUnitName"
	ColUnit                         = "Unit"
	ColUsage                        = "Usage"
	ColUnitPrice                    = "UnitPrice"
	ColUnitPriceUnit                = "UnitPriceUnit"
	ColPricingUnit                  = "PricingUnit"
	ColPricingCurrency              = "PricingCurrency"
	ColPricingCurrencyListUnitPrice = "PricingCurrencyListUnitPrice"
	ColBilledCost                   = "BilledCost"
	ColBillingCurrency              = "BillingCurrency"
	ColConsumedUnit                 = "ConsumedUnit"
	ColProvider                     = "Provider"
	ColPublisher                    = "Publisher"
	ColInvoiceIssuer                = "InvoiceIssuer"
)
