package matching

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/danurs/registration-matcher/consts"
)

const confirmationDigits = 6

// assignConfirmation generates and stores a confirmation number for a matched
// registration, exactly once. A registration that already carries a code keeps
// it; the conditional write in the storage layer makes concurrent retries
// return the original.
func (u *matchingUsecase) assignConfirmation(registrationID int64) (string, error) {
	reg, err := u.dao.GetRegistrationRecordByID(registrationID)
	if err != nil {
		return "", err
	}
	if reg.ConfirmationNumber != "" {
		return reg.ConfirmationNumber, nil
	}

	code := buildConfirmationCode(reg.RegistrationType, time.Now())
	return u.dao.AssignConfirmationNumber(reg.ID, code)
}

// buildConfirmationCode produces PREFIX-<digits><letter>. The digits come from
// the current epoch seconds reversed with the leading digit dropped, so codes
// drift apart fast enough that a lookup-before-insert is not needed. The
// scheme is probabilistic, not provably collision-free; true global uniqueness
// would need a post-write uniqueness check or a structurally unique id.
func buildConfirmationCode(registrationType string, now time.Time) string {
	prefix, ok := consts.ConfirmationPrefixes[registrationType]
	if !ok {
		prefix = consts.DefaultConfirmationPrefix
	}

	reversed := reverseString(strconv.FormatInt(now.Unix(), 10))
	digits := reversed[1:]
	if len(digits) > confirmationDigits {
		digits = digits[:confirmationDigits]
	}

	letter := rune('A' + rand.Intn(26))
	return fmt.Sprintf("%s-%s%c", prefix, digits, letter)
}

func reverseString(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
