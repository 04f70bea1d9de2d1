package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/exhibition/metrics"
	"github.com/cppla/exhibition/stats"
	"github.com/cppla/exhibition/utils"
)

// VisitCounter counts one site visit per session and local day, before any handler runs.
// A failed write is logged and retried on the session's next request; the page is served either way.
func VisitCounter(counter *stats.Counter) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := CurrentSession(c)
		if state == nil {
			c.Next()
			return
		}

		day := counter.Today()
		if !state.Visited(day) {
			if err := counter.RecordVisit(c.Request.Context()); err != nil {
				metrics.CounterErrors.WithLabelValues("visit").Inc()
				utils.Logger.Warn("visit counter failed", zap.String("day", day), zap.Error(err))
			} else {
				metrics.SiteVisits.Inc()
				state.MarkVisited(day)
				if err := state.Save(); err != nil {
					utils.Logger.Warn("save session failed", zap.Error(err))
				}
			}
		}
		c.Next()
	}
}
