package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/avdeev21/accounts/api/http/presenter"
	"github.com/avdeev21/accounts/pkg/throttle"
)

const authPath = "/v1/auth"

// Throttle gates every request on the abuse-throttle counters before any
// handler runs: a global per-IP budget on all endpoints plus tight per-IP
// and per-email budgets on the authentication endpoint. All applicable
// dimensions must pass for the request to proceed.
type Throttle struct {
	limiter *throttle.Limiter
	logger  *slog.Logger
}

func NewThrottle(limiter *throttle.Limiter, logger *slog.Logger) *Throttle {
	return &Throttle{limiter: limiter, logger: logger}
}

func (t *Throttle) Handle(c *fiber.Ctx) error {
	ip := c.IP()

	type check struct {
		rule  throttle.Rule
		value string
	}
	checks := []check{{throttle.RuleRequestsPerIP, ip}}

	email := ""
	if c.Method() == fiber.MethodPost && c.Path() == authPath {
		checks = append(checks, check{throttle.RuleLoginsPerIP, ip})

		// Requests without a parseable email are not counted on the
		// email dimension.
		if email = strings.TrimSpace(c.FormValue("user[email]")); email != "" {
			checks = append(checks, check{throttle.RuleLoginsPerEmail, email})
		}
	}

	for _, check := range checks {
		ok, err := t.limiter.Allow(c.Context(), check.rule, check.value)
		if err != nil {
			// Counter store down is a dependency failure; the
			// request must not slip through silently.
			t.logger.Error("throttle admission check failed",
				slog.String("rule", check.rule.Name),
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
			return presenter.Error(c, http.StatusInternalServerError, "admission check failed")
		}
		if !ok {
			t.emitTrigger(check.rule, c.Path(), ip, email)
			return presenter.JSON(c, http.StatusTooManyRequests, fiber.Map{"error": "throttled"})
		}
	}
	return c.Next()
}

// emitTrigger reports a tripped rule for external alerting. Fire-and-forget:
// it can never block or fail the admission decision.
func (t *Throttle) emitTrigger(rule throttle.Rule, path, ip, email string) {
	attrs := []any{
		slog.String("rule", rule.Name),
		slog.String("path", path),
		slog.String("ip", ip),
	}
	if email != "" {
		attrs = append(attrs, slog.String("email", email))
	}
	t.logger.Warn("request throttled", attrs...)
}
