package core

import (
	"lightbar-service/internal/button"
)

// handleGesture applies the configuration change bound to g and announces
// the gesture. Runs on the dispatcher loop.
func (s *LightSystem) handleGesture(g button.Gesture) {
	s.logger.Infof("Button gesture: %s", g)

	switch g.Kind {
	case button.ShortPress:
		switch g.Clicks {
		case 1:
			s.store.CycleBrightness()
		case 2:
			s.store.CycleMode()
		default:
			s.store.CycleEffect()
		}
	case button.LongPress:
		switch g.Clicks {
		case 1:
			s.store.CycleSingleColor()
		case 2:
			s.logger.Infof("Double long press has no action")
		default:
			s.store.ResetDefaults()
		}
	}

	if err := s.redis.PublishButtonEvent(g.String()); err != nil {
		s.logger.Warnf("Failed to publish button event: %v", err)
	}
}
