package routes

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/baintwallet/baintwallet/internal/chain"
	"github.com/baintwallet/baintwallet/internal/config"
	"github.com/baintwallet/baintwallet/internal/custody"
	"github.com/baintwallet/baintwallet/internal/transfer"
)

// RegisterWalletRoutes wires the wallet query endpoint used internally and in
// testing.
func RegisterWalletRoutes(r fiber.Router, transfers *transfer.Service, cfg config.Config) {
	r.Get("/wallet/:identity", func(c *fiber.Ctx) error {
		// Phone-number identities arrive percent-encoded ("+" as %2B).
		identity, err := url.PathUnescape(c.Params("identity"))
		if err != nil || identity == "" {
			return fiber.NewError(http.StatusBadRequest, "invalid identity")
		}

		snap, err := transfers.Describe(c.UserContext(), identity)
		if errors.Is(err, custody.ErrNotProvisioned) {
			return fiber.NewError(http.StatusNotFound, "no wallet found for this identity")
		}
		if err != nil {
			return fiber.NewError(http.StatusBadGateway, "failed to fetch wallet info")
		}

		return c.Status(http.StatusOK).JSON(fiber.Map{
			"address": snap.Address,
			"balance": fiber.Map{
				"formatted": chain.FormatWei(snap.Balance),
				"wei":       snap.Balance.String(),
				"symbol":    cfg.ChainSymbol,
				"chain":     cfg.ChainName,
			},
		})
	})
}
