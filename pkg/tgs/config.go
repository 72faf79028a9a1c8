package tgs

import "time"

// Config is the TGS core's read-only configuration surface (spec.md
// section 6). The core never reloads it; a config change is expected
// to be an atomic pointer swap performed by the caller between
// requests.
type Config struct {
	PrimaryRealm     string
	ServicePrincipal string // e.g. "krbtgt/EXAMPLE.COM"

	// EncryptionTypes is this KDC's etype preference order, most
	// preferred first. Stage 2 picks the first entry also present in
	// the request's etype list.
	EncryptionTypes []int32

	AllowableClockSkew   time.Duration
	MaxTicketLifetime    time.Duration
	MaxRenewableLifetime time.Duration

	BodyChecksumVerified  bool
	EmptyAddressesAllowed bool
	ForwardableAllowed    bool
	ProxiableAllowed      bool
	PostdatedAllowed      bool
	RenewableAllowed      bool
}

// Key usage constants the TGS core uses to seal, unseal, and verify
// checksums over protocol structures. These are spec-mandated values
// and must not be replaced with a third-party package's own key usage
// constants, which differ in numbering for some of these contexts.
const (
	KeyUsageTicketSeal        uint32 = 2
	KeyUsageTGSAuthenticator  uint32 = 7
	KeyUsageTGSBodyChecksum   uint32 = 8
	KeyUsageTGSReplySessKey   uint32 = 8
	KeyUsageTGSReplySubkey    uint32 = 9
	KeyUsageAuthorizationData uint32 = 4
)
