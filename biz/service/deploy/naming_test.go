package deploy_test

import (
	"regexp"
	"testing"

	"github.com/yi-nology/page_harbor/biz/service/deploy"
)

func TestResolvePrefixDeterministic(t *testing.T) {
	first := deploy.ResolvePrefix("Acme", "secret")
	second := deploy.ResolvePrefix("Acme", "secret")
	if first != second {
		t.Fatalf("same name and salt must resolve identically: %s vs %s", first, second)
	}

	pattern := regexp.MustCompile(`^Acme-[0-9a-f]{8}$`)
	if !pattern.MatchString(first) {
		t.Fatalf("prefix %q does not match <name>-<8 hex chars>", first)
	}
}

func TestResolvePrefixSaltSensitivity(t *testing.T) {
	withSalt := deploy.ResolvePrefix("Acme", "secret")
	otherSalt := deploy.ResolvePrefix("Acme", "pepper")
	if withSalt == otherSalt {
		t.Fatalf("different salts produced the same token: %s", withSalt)
	}
}

func TestResolvePrefixDistinctNames(t *testing.T) {
	a := deploy.ResolvePrefix("Acme", "secret")
	b := deploy.ResolvePrefix("Apex", "secret")
	if a == b {
		t.Fatalf("different names produced the same prefix: %s", a)
	}
}

func TestResolvePrefixSanitizesName(t *testing.T) {
	prefix := deploy.ResolvePrefix("Acme Corp/Intl", "secret")
	if regexp.MustCompile(`[ /]`).MatchString(prefix) {
		t.Fatalf("prefix %q contains unsafe characters", prefix)
	}
}
