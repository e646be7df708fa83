package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/stagecast/textship/internal/domain"
)

// Startup pattern: two identification texts with a pause between each step,
// then a clear. Used only as a connectivity smoke test after connect.
const (
	selfTestFirstText  = "TEXTSHIP"
	selfTestSecondText = "READY"
	selfTestStepDelay  = 3 * time.Second
)

// SelfTest runs the startup pattern. Each step's failure aborts the
// remaining steps. The waits respect ctx cancellation.
func (p *Pipeline) SelfTest(ctx context.Context) error {
	if _, err := p.DispatchFresh(ctx, selfTestFirstText); err != nil {
		return fmt.Errorf("%w: step 1: %v", domain.ErrSelfTestAborted, err)
	}
	if err := sleepCtx(ctx, p.selfTestDelay); err != nil {
		return err
	}
	if _, err := p.DispatchFresh(ctx, selfTestSecondText); err != nil {
		return fmt.Errorf("%w: step 2: %v", domain.ErrSelfTestAborted, err)
	}
	if err := sleepCtx(ctx, p.selfTestDelay); err != nil {
		return err
	}
	if err := p.Clear(ctx); err != nil {
		return fmt.Errorf("%w: clear: %v", domain.ErrSelfTestAborted, err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
