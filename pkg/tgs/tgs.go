// Package tgs implements the Ticket-Granting Service state machine:
// ten sequential stages that turn a decoded TGS-REQ and a presented
// TGT into a new service ticket, or a Kerberos error. The package owns
// all ticket-construction policy; every cryptographic, storage, and
// wire-codec concern it needs is expressed as a narrow collaborator
// interface the caller supplies.
package tgs

import (
	"context"
	"net"
	"time"

	"github.com/dirsrv/kdc/internal/logger"
	"github.com/dirsrv/kdc/internal/telemetry"
	"github.com/dirsrv/kdc/pkg/kdcmetrics"
	"github.com/dirsrv/kdc/pkg/kerberr"
	"github.com/dirsrv/kdc/pkg/krb5msg"
)

// Core is the TGS state machine. It is safe for concurrent use: every
// Execute call owns its own Context, and the only shared mutable
// collaborator (ReplayCache) is required to serialize itself.
type Core struct {
	Config *Config

	Principals PrincipalStore
	Replays    ReplayCache
	Cipher     CipherTextHandler
	Checksums  ChecksumHandler
	Keys       RandomKeyFactory
	Codec      Codec
	Metrics    *kdcmetrics.Metrics

	// Clock is overridable for tests; nil means time.Now.
	Clock func() time.Time
}

func (c *Core) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

// stage bundles one pipeline step's name (for telemetry/logging/
// metrics) with its function.
type stage struct {
	name string
	span string
	fn   func(*Context) error
}

func (c *Core) pipeline() []stage {
	return []stage{
		{"configure", telemetry.SpanTGSRequest, stage1Configure},
		{"select_etype", telemetry.SpanStageSelectEtype, stage2SelectEType},
		{"extract_ap_req", telemetry.SpanStageExtractApReq, stage3ExtractApReq},
		{"verify_tgt_realm", telemetry.SpanStageVerifyTgtRealm, stage4VerifyTGTRealmAndServer},
		{"resolve_ticket_principal", telemetry.SpanStageResolveTicket, stage5ResolveTicketPrincipal},
		{"verify_ap_req", telemetry.SpanStageVerifyApReq, stage6VerifyApReq},
		{"verify_body_checksum", telemetry.SpanStageVerifyChecksum, stage7VerifyBodyChecksum},
		{"resolve_server", telemetry.SpanStageResolveServer, stage8ResolveRequestedServer},
		{"construct_ticket", telemetry.SpanStageConstructTicket, stage9ConstructNewTicket},
		{"build_reply", telemetry.SpanStageBuildReply, stage10BuildReply},
	}
}

// Execute runs the ten-stage TGS pipeline against request, returning
// the TgsRep on success or a *kerberr.Error on the first stage that
// fails. Stages run strictly in order with no back-edges; nothing a
// failed stage wrote is undone, matching the pipeline's fail-fast
// contract. clientAddr may be nil if the transport did not supply one.
func (c *Core) Execute(ctx context.Context, clientAddr net.IP, request *krb5msg.KdcReq) (*krb5msg.TgsRep, error) {
	reqCtx := newContext(c, request, clientAddr)

	for _, st := range c.pipeline() {
		stageCtx, span := telemetry.StartStageSpan(ctx, st.span, st.name)

		started := time.Now()
		err := st.fn(reqCtx)
		c.Metrics.RecordStage(st.name, time.Since(started), err)

		if err != nil {
			telemetry.RecordError(stageCtx, err)
			span.End()

			if kerr, ok := err.(*kerberr.Error); ok {
				c.Metrics.RecordError(kerr.Code.String())
				logger.WarnCtx(ctx, "tgs stage failed",
					logger.Stage(st.name), logger.ErrorCode(int32(kerr.Code)), logger.Err(kerr))
				return nil, kerr
			}
			logger.ErrorCtx(ctx, "tgs stage failed with an unclassified error", logger.Stage(st.name), logger.Err(err))
			return nil, err
		}
		span.End()
	}

	return reqCtx.reply, nil
}
