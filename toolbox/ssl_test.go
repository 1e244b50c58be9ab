package toolbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesDomainExact(t *testing.T) {
	assert.True(t, matchesDomain("example.com", "example.com"))
	assert.True(t, matchesDomain("Example.COM", "example.com"))
}

func TestMatchesDomainWildcardSingleLabel(t *testing.T) {
	assert.True(t, matchesDomain("foo.example.com", "*.example.com"))
}

func TestMatchesDomainWildcardNeverMatchesApex(t *testing.T) {
	assert.False(t, matchesDomain("example.com", "*.example.com"))
}

func TestMatchesDomainWildcardNeverMatchesMultiLevel(t *testing.T) {
	assert.False(t, matchesDomain("a.b.example.com", "*.example.com"))
}

func TestMatchesDomainUnrelatedPattern(t *testing.T) {
	assert.False(t, matchesDomain("example.com", "*.other.com"))
}

func TestMatchesDomainTrimsTrailingDot(t *testing.T) {
	assert.True(t, matchesDomain("example.com.", "example.com"))
}

func TestBuildCertInfoDomainMatchesViaSAN(t *testing.T) {
	assert.True(t, matchesDomain("api.example.com", "*.example.com"))
	assert.False(t, matchesDomain("api.internal.example.com", "*.example.com"))
}
