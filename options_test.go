package cors_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/fetchguard/cors"
	"github.com/fetchguard/cors/cfgerrors"
)

func TestNewPolicyValid(t *testing.T) {
	cases := []struct {
		desc string
		opts cors.Options
	}{
		{
			desc: "zero options",
			opts: cors.Options{},
		}, {
			desc: "any origin without credentials",
			opts: cors.Options{Origin: cors.AnyOrigin()},
		}, {
			desc: "credentialed list policy",
			opts: cors.Options{
				Origin:       cors.OriginList(cors.MatchOrigin("https://a.test")),
				Credentialed: true,
			},
		}, {
			desc: "full configuration",
			opts: cors.Options{
				Origin:              cors.ExactOrigin("https://a.test"),
				Methods:             []string{"GET", "POST", "DELETE"},
				AllowedHeaders:      cors.AllowHeaders("X-Test", "Content-Type"),
				ExposedHeaders:      []string{"X-Response-Time"},
				Credentialed:        true,
				MaxAgeInSeconds:     600,
				AllowNullOrigin:     true,
				AllowPrivateNetwork: true,
				TimingAllowOrigin:   cors.TimingOrigins("https://a.test"),
				SuccessStatus:       200,
			},
		}, {
			desc: "max-age sentinel for disabling caching",
			opts: cors.Options{MaxAgeInSeconds: -1},
		}, {
			desc: "mirrored request headers",
			opts: cors.Options{AllowedHeaders: cors.MirrorRequestHeaders()},
		},
	}
	for _, tc := range cases {
		f := func(t *testing.T) {
			if _, err := cors.NewPolicy(tc.opts); err != nil {
				t.Errorf("NewPolicy: got unexpected error %v", err)
			}
		}
		t.Run(tc.desc, f)
	}
}

func TestNewPolicyInvalid(t *testing.T) {
	cases := []struct {
		desc string
		opts cors.Options
		want []error
	}{
		{
			desc: "wildcard origin with credentials",
			opts: cors.Options{
				Origin:       cors.AnyOrigin(),
				Credentialed: true,
			},
			want: []error{new(cfgerrors.CredentialsRequireSpecificOriginError)},
		}, {
			desc: "literal wildcard exact origin with credentials",
			opts: cors.Options{
				Origin:       cors.ExactOrigin("*"),
				Credentialed: true,
			},
			want: []error{new(cfgerrors.CredentialsRequireSpecificOriginError)},
		}, {
			desc: "wildcard in allowed-header list",
			opts: cors.Options{AllowedHeaders: cors.AllowHeaders("*")},
			want: []error{
				&cfgerrors.UnacceptableHeaderNameError{Value: "*", Type: "request", Reason: "wildcard"},
			},
		}, {
			desc: "wildcard in exposed-header list",
			opts: cors.Options{ExposedHeaders: []string{"*"}},
			want: []error{
				&cfgerrors.UnacceptableHeaderNameError{Value: "*", Type: "response", Reason: "wildcard"},
			},
		}, {
			desc: "invalid method",
			opts: cors.Options{Methods: []string{"G E T"}},
			want: []error{
				&cfgerrors.UnacceptableMethodError{Value: "G E T", Reason: "invalid"},
			},
		}, {
			desc: "invalid allowed-header name",
			opts: cors.Options{AllowedHeaders: cors.AllowHeaders("x:y")},
			want: []error{
				&cfgerrors.UnacceptableHeaderNameError{Value: "x:y", Type: "request", Reason: "invalid"},
			},
		}, {
			desc: "invalid exposed-header name",
			opts: cors.Options{ExposedHeaders: []string{"résumé"}},
			want: []error{
				&cfgerrors.UnacceptableHeaderNameError{Value: "résumé", Type: "response", Reason: "invalid"},
			},
		}, {
			desc: "success status too low",
			opts: cors.Options{SuccessStatus: 199},
			want: []error{&cfgerrors.InvalidSuccessStatusError{Value: 199}},
		}, {
			desc: "success status too high",
			opts: cors.Options{SuccessStatus: 600},
			want: []error{&cfgerrors.InvalidSuccessStatusError{Value: 600}},
		}, {
			desc: "max-age too low",
			opts: cors.Options{MaxAgeInSeconds: -2},
			want: []error{&cfgerrors.MaxAgeOutOfBoundsError{Value: -2, Max: 86_400, Disable: -1}},
		}, {
			desc: "max-age too high",
			opts: cors.Options{MaxAgeInSeconds: 86_401},
			want: []error{&cfgerrors.MaxAgeOutOfBoundsError{Value: 86_401, Max: 86_400, Disable: -1}},
		}, {
			desc: "multiple mistakes reported at once",
			opts: cors.Options{
				Origin:          cors.AnyOrigin(),
				Credentialed:    true,
				Methods:         []string{"G E T"},
				ExposedHeaders:  []string{"*"},
				MaxAgeInSeconds: 86_401,
				SuccessStatus:   42,
			},
			want: []error{
				new(cfgerrors.CredentialsRequireSpecificOriginError),
				&cfgerrors.UnacceptableMethodError{Value: "G E T", Reason: "invalid"},
				&cfgerrors.UnacceptableHeaderNameError{Value: "*", Type: "response", Reason: "wildcard"},
				&cfgerrors.MaxAgeOutOfBoundsError{Value: 86_401, Max: 86_400, Disable: -1},
				&cfgerrors.InvalidSuccessStatusError{Value: 42},
			},
		},
	}
	for _, tc := range cases {
		f := func(t *testing.T) {
			p, err := cors.NewPolicy(tc.opts)
			if p != nil || err == nil {
				t.Fatalf("NewPolicy: got %v, %v; want nil policy and some non-nil error", p, err)
			}
			got := slices.Collect(cfgerrors.All(err))
			if len(got) != len(tc.want) {
				t.Fatalf("got %d configuration error(s) (%v); want %d", len(got), err, len(tc.want))
			}
			for _, want := range tc.want {
				if !slices.ContainsFunc(got, func(e error) bool { return e.Error() == want.Error() }) {
					t.Errorf("missing configuration error %v in %v", want, err)
				}
			}
		}
		t.Run(tc.desc, f)
	}
}

func TestMatchOriginPattern(t *testing.T) {
	if _, err := cors.MatchOriginPattern(`https://example\.com`); err != nil {
		t.Errorf("MatchOriginPattern: got unexpected error %v", err)
	}
	_, err := cors.MatchOriginPattern(`https://(`)
	var patternErr *cfgerrors.UnacceptableOriginPatternError
	if !errors.As(err, &patternErr) {
		t.Errorf("MatchOriginPattern: got %v; want an UnacceptableOriginPatternError", err)
	}
}
