package module

import (
	"replyguard/internal/core/policy"
	"replyguard/internal/platform/config"
)

// Options holds configuration settings for the settings module
type Options struct {
	DefaultEnabled     bool
	DefaultSensitivity policy.Sensitivity
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	sc := cfg.Prefix("CORE_SETTINGS_")
	raw := sc.MayEnum("DEFAULT_SENSITIVITY", string(policy.Default), "low", "medium", "high")
	sens, _ := policy.Parse(raw)
	return Options{
		DefaultEnabled:     sc.MayBool("DEFAULT_ENABLED", true),
		DefaultSensitivity: sens,
	}
}
