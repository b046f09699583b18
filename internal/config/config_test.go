package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/bfhl/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":3000")
			convey.So(cfg.MaxFibonacciTerms, convey.ShouldEqual, 1000)
			convey.So(cfg.MaxPrimeElements, convey.ShouldEqual, 10_000)
			convey.So(cfg.ComputeTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "bfhl")
			convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 1<<20)
			convey.So(cfg.AIModel, convey.ShouldEqual, "gemini-pro")
			convey.So(cfg.AITimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs breaking one invariant each", t, func() {
		cases := map[string]func(c *config.Config){
			"port out of range":        func(c *config.Config) { c.Port = 70000 },
			"empty email":              func(c *config.Config) { c.OfficialEmail = "" },
			"negative fib cap":         func(c *config.Config) { c.MaxFibonacciTerms = -1 },
			"negative prime cap":       func(c *config.Config) { c.MaxPrimeElements = -1 },
			"negative compute timeout": func(c *config.Config) { c.ComputeTimeoutMS = -1 },
			"empty metrics namespace":  func(c *config.Config) { c.MetricsNamespace = "" },
			"zero body limit":          func(c *config.Config) { c.MaxBodyBytes = 0 },
			"negative rate":            func(c *config.Config) { c.RateLimitRPS = -1 },
			"zero ai timeout":          func(c *config.Config) { c.AITimeoutMS = 0 },
			"unknown ai backend":       func(c *config.Config) { c.AIBackend = "grpc" },
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)

			convey.Convey("Then "+name+" is rejected", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}

func TestConfig_ListenAddr(t *testing.T) {
	convey.Convey("Given an address without host", t, func() {
		cfg := config.New()
		cfg.Addr = "not-an-addr"
		cfg.Port = 4000

		convey.Convey("Then the port alone is used", func() {
			convey.So(cfg.ListenAddr(), convey.ShouldEqual, ":4000")
		})
	})
}
