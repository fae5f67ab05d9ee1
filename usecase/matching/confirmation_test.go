package matching

import (
	"regexp"
	"testing"
	"time"

	"github.com/danurs/registration-matcher/consts"
	"github.com/danurs/registration-matcher/infra/db/model"
)

var confirmationPattern = regexp.MustCompile(`^[A-Z]{3}-\d{1,6}[A-Z]$`)

func TestBuildConfirmationCodeFormat(t *testing.T) {
	now := time.Unix(1724800000, 0)

	cases := []struct {
		registrationType string
		wantPrefix       string
	}{
		{consts.RegistrationTypeIndividual, "IND"},
		{consts.RegistrationTypeLodge, "LDG"},
		{consts.RegistrationTypeDelegation, "DLG"},
		{"walk_in", "REG"},
	}

	for _, tc := range cases {
		code := buildConfirmationCode(tc.registrationType, now)
		if !confirmationPattern.MatchString(code) {
			t.Errorf("code %q does not match PREFIX-digits-letter shape", code)
		}
		if code[:3] != tc.wantPrefix {
			t.Errorf("code %q prefix, want %s", code, tc.wantPrefix)
		}
	}
}

func TestBuildConfirmationCodeDigitsFromReversedEpoch(t *testing.T) {
	// 1724800000 reversed is "0000084271"; dropping the leading digit and
	// truncating to six leaves "000084".
	code := buildConfirmationCode(consts.RegistrationTypeIndividual, time.Unix(1724800000, 0))
	if code[:10] != "IND-000084" {
		t.Errorf("code = %q, want IND-000084 plus a letter", code)
	}
	if len(code) != 11 {
		t.Errorf("code length = %d, want 11", len(code))
	}
	last := code[len(code)-1]
	if last < 'A' || last > 'Z' {
		t.Errorf("code %q should end with an uppercase letter", code)
	}
}

func TestAssignConfirmationExactlyOnce(t *testing.T) {
	uc, fake := newTestUsecase()
	reg := seedRegistration(t, fake, &model.RegistrationRecord{
		TotalAmountMinor: 13901,
	}, nil, "")

	first, err := uc.assignConfirmation(reg.ID)
	if err != nil {
		t.Fatalf("first assignment: %v", err)
	}
	if first == "" {
		t.Fatal("no confirmation code assigned")
	}

	second, err := uc.assignConfirmation(reg.ID)
	if err != nil {
		t.Fatalf("second assignment: %v", err)
	}
	if second != first {
		t.Errorf("reassignment changed the code: %q -> %q", first, second)
	}

	got, _ := fake.GetRegistrationRecordByID(reg.ID)
	if got.ConfirmationNumber != first {
		t.Errorf("stored code = %q, want %q", got.ConfirmationNumber, first)
	}
}

func TestAssignConfirmationKeepsPreexistingCode(t *testing.T) {
	uc, fake := newTestUsecase()
	reg := seedRegistration(t, fake, &model.RegistrationRecord{
		TotalAmountMinor:   13901,
		ConfirmationNumber: "IND-123456Z",
	}, nil, "")

	code, err := uc.assignConfirmation(reg.ID)
	if err != nil {
		t.Fatalf("assignConfirmation: %v", err)
	}
	if code != "IND-123456Z" {
		t.Errorf("code = %q, want the preexisting IND-123456Z", code)
	}
}
