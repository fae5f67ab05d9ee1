package matching

import (
	"context"
	"log"

	"github.com/danurs/registration-matcher/consts"
)

func (u *matchingUsecase) TryAcquireRun(ctx context.Context) (bool, int64, error) {
	runs, err := u.dao.GetMatchRunLogsByStatusList([]int{consts.StatusInit, consts.StatusRunning})
	if err != nil {
		return false, 0, err
	}

	for _, run := range runs {
		if !u.locker.TryClaim(run.ID) {
			continue
		}
		log.Printf("[CLAIM_RUN] run_id:%d", run.ID)
		return true, run.ID, nil
	}

	return false, 0, nil
}

func (u *matchingUsecase) ReleaseRun(ctx context.Context, runID int64) {
	u.locker.Release(runID)
	log.Printf("[RELEASE_RUN] run_id:%d", runID)
}
