package services

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Config holds the settings read from STUDYQUOTE_* environment variables.
type Config struct {
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	CompanyPhone   string
	CompanyGSTIN   string

	SenderName    string
	SenderAddress string

	DocumentTimeout   time.Duration
	ReconcileSchedule string
	QuoteValidityDays int
}

// CompanyInfo is the letterhead printed on quotations.
type CompanyInfo struct {
	Name    string
	Address string
	Email   string
	Phone   string
	GSTIN   string
}

// Company returns the letterhead part of the config.
func (c Config) Company() CompanyInfo {
	return CompanyInfo{
		Name:    c.CompanyName,
		Address: c.CompanyAddress,
		Email:   c.CompanyEmail,
		Phone:   c.CompanyPhone,
		GSTIN:   c.CompanyGSTIN,
	}
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		CompanyName:       "Study Quote Laboratories",
		CompanyAddress:    "",
		CompanyEmail:      "",
		SenderName:        "Quotations",
		DocumentTimeout:   30 * time.Second,
		ReconcileSchedule: "*/10 * * * *",
		QuoteValidityDays: QuoteValidityDays,
	}
}

// LoadConfig reads the environment on top of DefaultConfig. Unparseable
// numbers keep their default and are logged.
func LoadConfig() Config {
	return loadConfig(os.LookupEnv)
}

func loadConfig(lookup func(string) (string, bool)) Config {
	cfg := DefaultConfig()

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("STUDYQUOTE_COMPANY_NAME", &cfg.CompanyName)
	str("STUDYQUOTE_COMPANY_ADDRESS", &cfg.CompanyAddress)
	str("STUDYQUOTE_COMPANY_EMAIL", &cfg.CompanyEmail)
	str("STUDYQUOTE_COMPANY_PHONE", &cfg.CompanyPhone)
	str("STUDYQUOTE_COMPANY_GSTIN", &cfg.CompanyGSTIN)
	str("STUDYQUOTE_SENDER_NAME", &cfg.SenderName)
	str("STUDYQUOTE_SENDER_ADDRESS", &cfg.SenderAddress)
	str("STUDYQUOTE_RECONCILE_SCHEDULE", &cfg.ReconcileSchedule)

	if v, ok := lookup("STUDYQUOTE_DOCUMENT_TIMEOUT"); ok && v != "" {
		d, err := cast.ToDurationE(v)
		if err != nil || d <= 0 {
			log.Printf("config: invalid STUDYQUOTE_DOCUMENT_TIMEOUT %q, using %s", v, cfg.DocumentTimeout)
		} else {
			cfg.DocumentTimeout = d
		}
	}
	if v, ok := lookup("STUDYQUOTE_VALIDITY_DAYS"); ok && v != "" {
		n, err := cast.ToIntE(v)
		if err != nil || n <= 0 {
			log.Printf("config: invalid STUDYQUOTE_VALIDITY_DAYS %q, using %d", v, cfg.QuoteValidityDays)
		} else {
			cfg.QuoteValidityDays = n
		}
	}

	if cfg.SenderAddress == "" {
		log.Printf("config: STUDYQUOTE_SENDER_ADDRESS not set, falling back to the app mail settings")
	}
	return cfg
}
