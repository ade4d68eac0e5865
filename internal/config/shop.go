package config

type ShopConfig struct {
	CouponPrefix          string  `yaml:"coupon_prefix"`
	CouponDiscountPercent int     `yaml:"coupon_discount_percent"`
	FallbackCouponCode    string  `yaml:"fallback_coupon_code"`
	ShippingFlatRate      float64 `yaml:"shipping_flat_rate"`
	FreeShippingThreshold float64 `yaml:"free_shipping_threshold"`
	DefaultCountry        string  `yaml:"default_country"`
}

func loadShopConfig() *ShopConfig {
	return &ShopConfig{
		CouponPrefix:          getEnv("COUPON_PREFIX", "MIKELS10"),
		CouponDiscountPercent: getEnvAsInt("COUPON_DISCOUNT_PERCENT", 10),
		FallbackCouponCode:    getEnv("NEWSLETTER_FALLBACK_COUPON", "BIENVENIDA10"),
		ShippingFlatRate:      getEnvAsFloat64("SHIPPING_FLAT_RATE", 0),
		FreeShippingThreshold: getEnvAsFloat64("FREE_SHIPPING_THRESHOLD", 0),
		DefaultCountry:        getEnv("SHOP_DEFAULT_COUNTRY", "España"),
	}
}
