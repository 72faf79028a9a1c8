package tgs

import (
	"bytes"
	"net"

	"github.com/dirsrv/kdc/pkg/kerberr"
	"github.com/dirsrv/kdc/pkg/krb5msg"
	"github.com/dirsrv/kdc/pkg/krb5types"
)

// stage1Configure is spec.md section 4.1 stage 1.
func stage1Configure(ctx *Context) error {
	if ctx.request.PVNO != krb5msg.ProtocolVersion {
		return kerberr.New(kerberr.KDC_ERR_BAD_PVNO, "unsupported protocol version %d", ctx.request.PVNO)
	}
	return nil
}

// stage2SelectEType is spec.md section 4.1 stage 2.
func stage2SelectEType(ctx *Context) error {
	requested := make(map[int32]bool, len(ctx.request.Body.EType))
	for _, e := range ctx.request.Body.EType {
		requested[e] = true
	}
	for _, preferred := range ctx.core.Config.EncryptionTypes {
		if requested[preferred] {
			ctx.selectedEType = preferred
			return nil
		}
	}
	return kerberr.New(kerberr.KDC_ERR_ETYPE_NOSUPP, "no encryption type shared with client")
}

// stage3ExtractApReq is spec.md section 4.1 stage 3.
func stage3ExtractApReq(ctx *Context) error {
	pa, ok := ctx.request.FindPAData(krb5msg.PADataTGSReq)
	if !ok || len(ctx.request.PAData) == 0 {
		return kerberr.New(kerberr.KDC_ERR_PADATA_TYPE_NOSUPP, "missing PA-TGS-REQ pre-authentication data")
	}
	apReq, err := ctx.core.Codec.DecodeApplicationRequest(pa.PADataValue)
	if err != nil {
		return kerberr.Wrap(kerberr.KDC_ERR_PADATA_TYPE_NOSUPP, err)
	}
	ctx.apReq = apReq
	ctx.tgt = apReq.Ticket
	return nil
}

// stage4VerifyTGTRealmAndServer is spec.md section 4.1 stage 4.
func stage4VerifyTGTRealmAndServer(ctx *Context) error {
	if ctx.tgt.Realm != ctx.core.Config.PrimaryRealm {
		return kerberr.New(kerberr.KRB_AP_ERR_NOT_US, "TGT was not issued by this realm")
	}

	servicePrincipal := krb5types.NewPrincipalName(krb5types.NameTypeSrvInst, splitPrincipal(ctx.core.Config.ServicePrincipal)...)
	if !ctx.tgt.SName.Equal(servicePrincipal) && !ctx.tgt.SName.Equal(ctx.request.Body.SName) {
		return kerberr.New(kerberr.KRB_AP_ERR_NOT_US, "ticket is not a TGT for this KDC nor a matching second ticket")
	}
	return nil
}

// stage5ResolveTicketPrincipal is spec.md section 4.1 stage 5.
func stage5ResolveTicketPrincipal(ctx *Context) error {
	entry, err := ctx.core.Principals.Lookup(ctx.tgt.SName, ctx.tgt.Realm)
	if err != nil {
		return kerberr.Wrap(kerberr.KDC_ERR_S_PRINCIPAL_UNKNOWN, err)
	}
	ctx.tgtStoreEntry = entry
	return nil
}

// stage6VerifyApReq is spec.md section 4.1 stage 6.
func stage6VerifyApReq(ctx *Context) error {
	encPart, ok := ctx.tgt.EncPart()
	if !ok {
		return kerberr.New(kerberr.KRB_AP_ERR_MODIFIED, "ticket carries no encrypted body")
	}
	serverKey, ok := ctx.tgtStoreEntry.KeyMap[encPart.EType]
	if !ok {
		return kerberr.New(kerberr.KDC_ERR_ETYPE_NOSUPP, "TGT server has no key for etype %d", encPart.EType)
	}

	tgtPart, err := ctx.tgt.Decrypt(func(enc krb5msg.EncryptedData) (*krb5msg.EncTicketPart, error) {
		pt, err := ctx.core.Cipher.Unseal(serverKey, enc, KeyUsageTicketSeal)
		if err != nil {
			return nil, err
		}
		return ctx.core.Codec.DecodeEncTicketPart(pt)
	})
	if err != nil {
		return kerberr.Wrap(kerberr.KRB_AP_ERR_MODIFIED, err)
	}
	ctx.tgtPart = tgtPart
	ctx.tgtSessionKey = tgtPart.Key

	authPT, err := ctx.core.Cipher.Unseal(ctx.tgtSessionKey, ctx.apReq.EncryptedAuthenticator, KeyUsageTGSAuthenticator)
	if err != nil {
		return kerberr.Wrap(kerberr.KRB_AP_ERR_MODIFIED, err)
	}
	authenticator, err := ctx.core.Codec.DecodeAuthenticator(authPT)
	if err != nil {
		return kerberr.Wrap(kerberr.KRB_AP_ERR_MODIFIED, err)
	}
	ctx.authenticator = authenticator

	if !authenticator.CName.Equal(tgtPart.CName) || authenticator.CRealm != tgtPart.CRealm {
		return kerberr.New(kerberr.KRB_AP_ERR_BADMATCH, "authenticator identity does not match ticket")
	}

	now := ctx.core.now()
	if !krb5types.WithinSkew(authenticator.CTime, krb5types.FromTime(now), ctx.core.Config.AllowableClockSkew) {
		return kerberr.New(kerberr.KRB_AP_ERR_SKEW, "authenticator timestamp outside allowable clock skew")
	}

	admitted := ctx.core.Replays.CheckAndInsert(int64(authenticator.CTime), authenticator.CuSec, authenticator.CName.String(), authenticator.CRealm)
	ctx.core.Metrics.RecordReplayDecision(admitted)
	if !admitted {
		return kerberr.New(kerberr.KRB_AP_ERR_REPEAT, "authenticator replay detected")
	}

	if ctx.clientAddr != nil && len(tgtPart.ClientAddresses) > 0 {
		if !addressInList(ctx.clientAddr, tgtPart.ClientAddresses) {
			return kerberr.New(kerberr.KRB_AP_ERR_BADADDR, "client address not present in TGT's address list")
		}
	} else if !ctx.core.Config.EmptyAddressesAllowed {
		return kerberr.New(kerberr.KRB_AP_ERR_BADADDR, "empty client addresses not permitted by configuration")
	}

	return nil
}

// stage7VerifyBodyChecksum is spec.md section 4.1 stage 7.
func stage7VerifyBodyChecksum(ctx *Context) error {
	if !ctx.core.Config.BodyChecksumVerified {
		return nil
	}
	if ctx.authenticator.Cksum == nil || ctx.authenticator.Cksum.CksumType == 0 || len(ctx.authenticator.Cksum.Checksum) == 0 || len(ctx.request.BodyBytes) == 0 {
		return kerberr.New(kerberr.KRB_AP_ERR_INAPP_CKSUM, "missing checksum or body bytes")
	}
	ok, err := ctx.core.Checksums.VerifyChecksum(ctx.tgtSessionKey, ctx.request.BodyBytes, ctx.authenticator.Cksum.Checksum, KeyUsageTGSBodyChecksum)
	if err != nil || !ok {
		return kerberr.New(kerberr.KRB_AP_ERR_MODIFIED, "request body checksum does not match")
	}
	return nil
}

// stage8ResolveRequestedServer is spec.md section 4.1 stage 8.
func stage8ResolveRequestedServer(ctx *Context) error {
	entry, err := ctx.core.Principals.Lookup(ctx.request.Body.SName, ctx.request.Body.Realm)
	if err != nil {
		return kerberr.Wrap(kerberr.KDC_ERR_S_PRINCIPAL_UNKNOWN, err)
	}
	ctx.serverStoreEntry = entry
	return nil
}

// stage9ConstructNewTicket is spec.md section 4.1 stage 9.
func stage9ConstructNewTicket(ctx *Context) error {
	opts := ctx.request.Body.KDCOptions
	if opts.Has(krb5types.KdcOptEncTktInSkey) {
		return kerberr.New(kerberr.KDC_ERR_BADOPTION, "ENC-TKT-IN-SKEY is not supported")
	}
	if opts.Has(krb5types.KdcOptValidate) && opts.Has(krb5types.KdcOptRenew) {
		return kerberr.New(kerberr.KDC_ERR_BADOPTION, "VALIDATE and RENEW are mutually exclusive")
	}

	now := ctx.core.now()

	if validated, err, handled := applyValidate(opts, now, ctx.tgtPart); handled {
		if err != nil {
			return err
		}
		return ctx.sealNewTicket(validated)
	}

	flags, err := applyFlagAlgebra(ctx.core.Config, opts, ctx.request.Body, ctx.tgtPart)
	if err != nil {
		return err
	}

	sessionKey, err := ctx.core.Keys.RandomKey(ctx.selectedEType)
	if err != nil {
		return kerberr.Wrap(kerberr.KDC_ERR_ETYPE_NOSUPP, err)
	}

	authData, err := resolveAuthorizationData(ctx)
	if err != nil {
		return err
	}

	transited, err := resolveTransited(ctx)
	if err != nil {
		return err
	}

	nowKT := krb5types.FromTime(now)
	startTime, err := computeStartTime(opts, ctx.request.Body.From, nowKT, ctx.core.Config.AllowableClockSkew, ctx.tgtPart)
	if err != nil {
		return err
	}

	endTime, renewTill, effectiveOpts, err := computeEndTime(ctx.core.Config, opts, ctx.request.Body, nowKT, startTime, ctx.tgtPart)
	if err != nil {
		return err
	}
	if effectiveOpts.Has(krb5types.KdcOptRenewable) {
		flags = flags.Set(krb5types.TicketFlagRenewable)
	}

	part := &krb5msg.EncTicketPart{
		Flags:             flags,
		Key:               sessionKey,
		CRealm:            ctx.tgtPart.CRealm,
		CName:             ctx.tgtPart.CName,
		Transited:         transited,
		AuthTime:          ctx.tgtPart.AuthTime,
		StartTime:         startTime,
		EndTime:           endTime,
		RenewTill:         renewTill,
		ClientAddresses:   addressesForNewTicket(opts, ctx.request.Body),
		AuthorizationData: authData,
	}

	return ctx.sealNewTicket(part)
}

// sealNewTicket encrypts part under the requested server's key at the
// negotiated etype and records the resulting Ticket on the context.
func (ctx *Context) sealNewTicket(part *krb5msg.EncTicketPart) error {
	serverKey, ok := ctx.serverStoreEntry.KeyMap[ctx.selectedEType]
	if !ok {
		return kerberr.New(kerberr.KDC_ERR_ETYPE_NOSUPP, "requested server has no key for the negotiated etype")
	}
	kvno := ctx.serverStoreEntry.KVNOMap[ctx.selectedEType]

	plaintext, err := ctx.core.Codec.EncodeEncTicketPart(part)
	if err != nil {
		return kerberr.Wrap(kerberr.KDC_ERR_ETYPE_NOSUPP, err)
	}
	enc, err := ctx.core.Cipher.Seal(serverKey, plaintext, KeyUsageTicketSeal, kvno)
	if err != nil {
		return kerberr.Wrap(kerberr.KDC_ERR_ETYPE_NOSUPP, err)
	}

	ctx.newPart = part
	ctx.newTicket = krb5msg.NewSealedTicket(ctx.request.Body.SName, ctx.request.Body.Realm, part, enc)
	return nil
}

// resolveAuthorizationData implements stage 9's authorization-data rule.
func resolveAuthorizationData(ctx *Context) ([]krb5msg.AuthorizationDataEntry, error) {
	var requested []krb5msg.AuthorizationDataEntry
	if ctx.request.Body.EncAuthorizationData != nil {
		key := ctx.tgtSessionKey
		if ctx.authenticator.SubKey != nil {
			key = *ctx.authenticator.SubKey
		}
		pt, err := ctx.core.Cipher.Unseal(key, *ctx.request.Body.EncAuthorizationData, KeyUsageAuthorizationData)
		if err != nil {
			return nil, kerberr.Wrap(kerberr.KRB_AP_ERR_MODIFIED, err)
		}
		requested, err = ctx.core.Codec.DecodeAuthorizationData(pt)
		if err != nil {
			return nil, kerberr.Wrap(kerberr.KRB_AP_ERR_MODIFIED, err)
		}
	}
	return append(requested, ctx.tgtPart.AuthorizationData...), nil
}

// resolveTransited implements stage 9's transited-encoding rule,
// restricted to the local pass-through path (cross-realm referral is
// out of scope).
func resolveTransited(ctx *Context) (krb5msg.TransitedEncoding, error) {
	const domainX500Compress int32 = 1

	if ctx.tgtPart.Transited.TRType != 0 && ctx.tgtPart.Transited.TRType != domainX500Compress {
		return krb5msg.TransitedEncoding{}, kerberr.New(kerberr.KDC_ERR_TRTYPE_NOSUPP, "unsupported transited encoding type %d", ctx.tgtPart.Transited.TRType)
	}

	issuedLocally := ctx.tgt.Realm == ctx.core.Config.PrimaryRealm
	if issuedLocally {
		return ctx.tgtPart.Transited, nil
	}

	contents := append([]byte(nil), ctx.tgtPart.Transited.Contents...)
	contents = append(contents, []byte(ctx.tgt.Realm)...)
	return krb5msg.TransitedEncoding{TRType: domainX500Compress, Contents: contents}, nil
}

// addressesForNewTicket copies request addresses onto the new ticket
// when FORWARDED or PROXY was requested; otherwise the new ticket
// inherits no addresses of its own (address restriction continues to
// flow from the TGT via client-address verification in stage 6 of the
// next hop, not by copying here).
func addressesForNewTicket(opts krb5types.KdcOptions, req krb5msg.KdcReqBody) []krb5msg.HostAddress {
	if opts.Has(krb5types.KdcOptForwarded) || opts.Has(krb5types.KdcOptProxy) {
		return req.Addresses
	}
	return nil
}

// stage10BuildReply is spec.md section 4.1 stage 10.
func stage10BuildReply(ctx *Context) error {
	part := ctx.newPart

	replyPart := &krb5msg.EncKdcRepPart{
		Key:       part.Key,
		LastReq:   nil,
		Nonce:     ctx.request.Body.Nonce,
		Flags:     part.Flags,
		AuthTime:  part.AuthTime,
		StartTime: part.StartTime,
		EndTime:   part.EndTime,
		SRealm:    ctx.request.Body.Realm,
		SName:     ctx.request.Body.SName,
		CAddr:     part.ClientAddresses,
	}
	if part.Flags.Has(krb5types.TicketFlagRenewable) {
		replyPart.RenewTill = part.RenewTill
	}

	plaintext, err := ctx.core.Codec.EncodeEncKdcRepPart(replyPart)
	if err != nil {
		return kerberr.Wrap(kerberr.KDC_ERR_ETYPE_NOSUPP, err)
	}

	var encPart krb5msg.EncryptedData
	if ctx.authenticator.SubKey != nil {
		encPart, err = ctx.core.Cipher.Seal(*ctx.authenticator.SubKey, plaintext, KeyUsageTGSReplySubkey, 0)
	} else {
		encPart, err = ctx.core.Cipher.Seal(ctx.tgtSessionKey, plaintext, KeyUsageTGSReplySessKey, 0)
	}
	if err != nil {
		return kerberr.Wrap(kerberr.KDC_ERR_ETYPE_NOSUPP, err)
	}

	ctx.reply = &krb5msg.TgsRep{
		PVNO:    krb5msg.ProtocolVersion,
		MsgType: krb5msg.MsgTypeTGSRep,
		CRealm:  part.CRealm,
		CName:   part.CName,
		Ticket:  ctx.newTicket,
		EncPart: encPart,
	}
	ctx.core.Metrics.RecordTicketIssued(ctx.selectedEType)
	return nil
}

func addressInList(addr net.IP, list []krb5msg.HostAddress) bool {
	raw := addr.To4()
	if raw == nil {
		raw = addr.To16()
	}
	for _, a := range list {
		if bytes.Equal(a.Address, raw) {
			return true
		}
	}
	return false
}

// splitPrincipal breaks a "service/instance" style principal string
// into its name components.
func splitPrincipal(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}
