package tgs

import (
	"net"

	"github.com/dirsrv/kdc/pkg/krb5msg"
	"github.com/dirsrv/kdc/pkg/krb5types"
)

// Context is the mutable bag threaded through the ten TGS stages. It
// is owned exclusively by one Execute call and never shared across
// requests. Stages only ever append to it; nothing they write is
// later rolled back, matching the pipeline's no-back-edges contract.
type Context struct {
	core *Core

	request    *krb5msg.KdcReq
	clientAddr net.IP // nil if the transport did not supply one

	selectedEType int32

	apReq *krb5msg.ApplicationRequest
	tgt   *krb5msg.Ticket
	tgtPart *krb5msg.EncTicketPart

	tgtStoreEntry    *PrincipalStoreEntry
	serverStoreEntry *PrincipalStoreEntry

	tgtSessionKey krb5types.EncryptionKey
	authenticator *krb5msg.Authenticator

	newPart   *krb5msg.EncTicketPart
	newTicket *krb5msg.Ticket

	reply *krb5msg.TgsRep
}

// newContext builds a fresh per-request Context.
func newContext(core *Core, request *krb5msg.KdcReq, clientAddr net.IP) *Context {
	return &Context{core: core, request: request, clientAddr: clientAddr}
}
