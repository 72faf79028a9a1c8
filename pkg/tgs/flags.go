package tgs

import (
	"time"

	"github.com/dirsrv/kdc/pkg/kerberr"
	"github.com/dirsrv/kdc/pkg/krb5msg"
	"github.com/dirsrv/kdc/pkg/krb5types"
)

// flagRule is one row of the option-requested flag algebra table
// (spec.md section 4.1, stage 9). Each option is handled
// independently and in the fixed order the table is walked in.
type flagRule struct {
	option          krb5types.KdcOptions
	policyAllowed   func(*Config) bool
	requiredTGTFlag krb5types.TicketFlags
	resultFlag      krb5types.TicketFlags
	copyAddresses   bool // FORWARDED and PROXY copy request addresses
}

var flagRules = []flagRule{
	{
		option:          krb5types.KdcOptForwardable,
		policyAllowed:   func(c *Config) bool { return c.ForwardableAllowed },
		requiredTGTFlag: krb5types.TicketFlagForwardable,
		resultFlag:      krb5types.TicketFlagForwardable,
	},
	{
		option:          krb5types.KdcOptForwarded,
		policyAllowed:   func(c *Config) bool { return c.ForwardableAllowed },
		requiredTGTFlag: krb5types.TicketFlagForwardable,
		resultFlag:      krb5types.TicketFlagForwarded,
		copyAddresses:   true,
	},
	{
		option:          krb5types.KdcOptProxiable,
		policyAllowed:   func(c *Config) bool { return c.ProxiableAllowed },
		requiredTGTFlag: krb5types.TicketFlagProxiable,
		resultFlag:      krb5types.TicketFlagProxiable,
	},
	{
		option:          krb5types.KdcOptProxy,
		policyAllowed:   func(c *Config) bool { return c.ProxiableAllowed },
		requiredTGTFlag: krb5types.TicketFlagProxiable,
		resultFlag:      krb5types.TicketFlagProxy,
		copyAddresses:   true,
	},
	{
		option:          krb5types.KdcOptAllowPostdate,
		policyAllowed:   func(c *Config) bool { return c.PostdatedAllowed },
		requiredTGTFlag: krb5types.TicketFlagMayPostdate,
		resultFlag:      krb5types.TicketFlagMayPostdate,
	},
	{
		option:          krb5types.KdcOptPostdated,
		policyAllowed:   func(c *Config) bool { return c.PostdatedAllowed },
		requiredTGTFlag: krb5types.TicketFlagMayPostdate,
		resultFlag:      krb5types.TicketFlagPostdated,
	},
}

// applyFlagAlgebra builds the new ticket's flag set from the TGT's
// flags and the requested KDC options, following spec.md section 4.1
// stage 9 in order. It returns the assembled flags or a KerberosError.
func applyFlagAlgebra(cfg *Config, opts krb5types.KdcOptions, req krb5msg.KdcReqBody, tgtPart *krb5msg.EncTicketPart) (krb5types.TicketFlags, error) {
	if opts.HasReserved() {
		return 0, kerberr.New(kerberr.KDC_ERR_BADOPTION, "reserved KDC option bit set")
	}

	var flags krb5types.TicketFlags
	if tgtPart.Flags.Has(krb5types.TicketFlagPreAuthent) {
		flags = flags.Set(krb5types.TicketFlagPreAuthent)
	}

	for _, rule := range flagRules {
		if !opts.Has(rule.option) {
			continue
		}
		if !rule.policyAllowed(cfg) {
			return 0, kerberr.New(kerberr.KDC_ERR_POLICY, "option not permitted by configuration")
		}
		if !tgtPart.Flags.Has(rule.requiredTGTFlag) {
			return 0, kerberr.New(kerberr.KDC_ERR_BADOPTION, "TGT lacks the required capability flag")
		}
		flags = flags.Set(rule.resultFlag)
		if rule.copyAddresses {
			if len(req.Addresses) == 0 && !cfg.EmptyAddressesAllowed {
				return 0, kerberr.New(kerberr.KDC_ERR_POLICY, "forwarded/proxy ticket requires addresses")
			}
		}
	}

	if tgtPart.Flags.Has(krb5types.TicketFlagForwarded) {
		flags = flags.Set(krb5types.TicketFlagForwarded)
	}

	if opts.Has(krb5types.KdcOptPostdated) {
		flags = flags.Set(krb5types.TicketFlagInvalid)
	}

	return flags, nil
}

// applyValidate handles the VALIDATE option's short-circuit path: it
// requires the TGT to be INVALID and already startable, then returns
// the TGT's body verbatim with INVALID cleared. The caller must skip
// the rest of stage 9's flag/time assembly when ok is true.
func applyValidate(opts krb5types.KdcOptions, now time.Time, tgtPart *krb5msg.EncTicketPart) (*krb5msg.EncTicketPart, error, bool) {
	if !opts.Has(krb5types.KdcOptValidate) {
		return nil, nil, false
	}
	if !tgtPart.Flags.Has(krb5types.TicketFlagInvalid) {
		return nil, kerberr.New(kerberr.KDC_ERR_POLICY, "VALIDATE requested on a ticket that is not INVALID"), true
	}
	if tgtPart.StartTime.After(krb5types.FromTime(now)) {
		return nil, kerberr.New(kerberr.KRB_AP_ERR_TKT_NYV, "ticket start time is still in the future"), true
	}

	validated := *tgtPart
	validated.Flags = validated.Flags.Clear(krb5types.TicketFlagInvalid)
	return &validated, nil, true
}

// computeStartTime implements spec.md section 4.1 stage 9's startTime
// rule.
func computeStartTime(opts krb5types.KdcOptions, from krb5types.KerberosTime, now krb5types.KerberosTime, skew time.Duration, tgtPart *krb5msg.EncTicketPart) (krb5types.KerberosTime, error) {
	postdated := opts.Has(krb5types.KdcOptPostdated)

	if from == 0 || from.Before(now) || (krb5types.WithinSkew(from, now, skew) && !postdated) {
		return now, nil
	}
	if from.After(now) && !krb5types.WithinSkew(from, now, skew) {
		if !postdated || !tgtPart.Flags.Has(krb5types.TicketFlagMayPostdate) {
			return 0, kerberr.New(kerberr.KDC_ERR_CANNOT_POSTDATE, "postdating not permitted for this TGT")
		}
	}
	return from, nil
}

// computeEndTime implements spec.md section 4.1 stage 9's endTime,
// RENEWABLE-OK, and renewTill rules. It returns the computed endTime,
// renewTill, and the (possibly upgraded) option set.
func computeEndTime(cfg *Config, opts krb5types.KdcOptions, req krb5msg.KdcReqBody, now, startTime krb5types.KerberosTime, tgtPart *krb5msg.EncTicketPart) (endTime, renewTill krb5types.KerberosTime, effectiveOpts krb5types.KdcOptions, err error) {
	effectiveOpts = opts

	if opts.Has(krb5types.KdcOptRenew) {
		if !cfg.RenewableAllowed || !tgtPart.Flags.Has(krb5types.TicketFlagRenewable) || tgtPart.RenewTill.Before(now) {
			return 0, 0, opts, kerberr.New(kerberr.KRB_AP_ERR_TKT_EXPIRED, "TGT is not renewable or its renew window has closed")
		}
		startOrAuth := tgtPart.StartTime
		if startOrAuth == 0 {
			startOrAuth = tgtPart.AuthTime
		}
		endTime = krb5types.Min(tgtPart.RenewTill, now.Add(time.Duration(int64(tgtPart.EndTime)-int64(startOrAuth))*time.Millisecond))
		return endTime, computeRenewTill(cfg, opts, req, startTime, tgtPart), effectiveOpts, nil
	}

	till := req.Till
	if till == 0 {
		till = krb5types.Infinity
	}
	endTime = krb5types.Min(till, krb5types.Min(startTime.Add(cfg.MaxTicketLifetime), tgtPart.EndTime))

	if opts.Has(krb5types.KdcOptRenewableOk) && endTime.Before(req.Till) && tgtPart.Flags.Has(krb5types.TicketFlagRenewable) {
		effectiveOpts = effectiveOpts.Set(krb5types.KdcOptRenewable)
	}

	renewTill = computeRenewTill(cfg, effectiveOpts, req, startTime, tgtPart)

	if endTime.Before(startTime) || time.Duration(int64(endTime)-int64(startTime))*time.Millisecond < cfg.AllowableClockSkew {
		return 0, 0, effectiveOpts, kerberr.New(kerberr.KDC_ERR_NEVER_VALID, "computed ticket lifetime is too short to ever be valid")
	}

	return endTime, renewTill, effectiveOpts, nil
}

func computeRenewTill(cfg *Config, opts krb5types.KdcOptions, req krb5msg.KdcReqBody, startTime krb5types.KerberosTime, tgtPart *krb5msg.EncTicketPart) krb5types.KerberosTime {
	if !opts.Has(krb5types.KdcOptRenewable) || !tgtPart.Flags.Has(krb5types.TicketFlagRenewable) {
		return 0
	}
	rtime := req.RTime
	if rtime == 0 {
		rtime = krb5types.Infinity
	}
	return krb5types.Min(rtime, krb5types.Min(startTime.Add(cfg.MaxRenewableLifetime), tgtPart.RenewTill))
}
