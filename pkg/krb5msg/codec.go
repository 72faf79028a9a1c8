package krb5msg

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/dirsrv/kdc/pkg/krb5types"
)

// GobCodec is a stand-in wire codec: it satisfies the tgs package's
// Codec collaborator using encoding/gob instead of the RFC 4120 ASN.1
// DER/BER encoding a production KDC would speak on the wire. The real
// codec is an external, out-of-scope collaborator; GobCodec exists so
// this module is internally coherent and testable end to end without
// one.
//
// Ticket carries an unexported body so it cannot gob-encode directly;
// GobCodec marshals it through wireTicket, an exported shadow of the
// same three fields a wire encoder would actually need (sname, realm,
// ciphertext).
type GobCodec struct{}

type wireTicket struct {
	SName krb5types.PrincipalName
	Realm string
	Enc   EncryptedData
}

type wireApplicationRequest struct {
	APOptions              uint32
	Ticket                 wireTicket
	EncryptedAuthenticator EncryptedData
}

func (GobCodec) DecodeApplicationRequest(data []byte) (*ApplicationRequest, error) {
	var wire wireApplicationRequest
	if err := decodeGob(data, &wire); err != nil {
		return nil, fmt.Errorf("decode AP-REQ: %w", err)
	}
	return &ApplicationRequest{
		APOptions:              wire.APOptions,
		Ticket:                 NewEncryptedTicket(wire.Ticket.SName, wire.Ticket.Realm, wire.Ticket.Enc),
		EncryptedAuthenticator: wire.EncryptedAuthenticator,
	}, nil
}

// EncodeApplicationRequest is the inverse of DecodeApplicationRequest,
// used by test doubles and callers assembling a PA-TGS-REQ element;
// apReq.Ticket must still carry its sealed ciphertext (EncPart).
func (GobCodec) EncodeApplicationRequest(apReq *ApplicationRequest) ([]byte, error) {
	enc, ok := apReq.Ticket.EncPart()
	if !ok {
		return nil, fmt.Errorf("encode AP-REQ: ticket has no sealed body")
	}
	wire := wireApplicationRequest{
		APOptions:              apReq.APOptions,
		Ticket:                 wireTicket{SName: apReq.Ticket.SName, Realm: apReq.Ticket.Realm, Enc: enc},
		EncryptedAuthenticator: apReq.EncryptedAuthenticator,
	}
	return encodeGob(&wire)
}

func (GobCodec) DecodeEncTicketPart(data []byte) (*EncTicketPart, error) {
	var part EncTicketPart
	if err := decodeGob(data, &part); err != nil {
		return nil, fmt.Errorf("decode EncTicketPart: %w", err)
	}
	return &part, nil
}

func (GobCodec) EncodeEncTicketPart(part *EncTicketPart) ([]byte, error) {
	data, err := encodeGob(part)
	if err != nil {
		return nil, fmt.Errorf("encode EncTicketPart: %w", err)
	}
	return data, nil
}

func (GobCodec) DecodeAuthenticator(data []byte) (*Authenticator, error) {
	var auth Authenticator
	if err := decodeGob(data, &auth); err != nil {
		return nil, fmt.Errorf("decode Authenticator: %w", err)
	}
	return &auth, nil
}

// EncodeAuthenticator is the inverse of DecodeAuthenticator, used by
// test doubles and callers assembling an Authenticator to seal.
func (GobCodec) EncodeAuthenticator(auth *Authenticator) ([]byte, error) {
	data, err := encodeGob(auth)
	if err != nil {
		return nil, fmt.Errorf("encode Authenticator: %w", err)
	}
	return data, nil
}

func (GobCodec) DecodeAuthorizationData(data []byte) ([]AuthorizationDataEntry, error) {
	var entries []AuthorizationDataEntry
	if len(data) == 0 {
		return nil, nil
	}
	if err := decodeGob(data, &entries); err != nil {
		return nil, fmt.Errorf("decode AuthorizationData: %w", err)
	}
	return entries, nil
}

func (GobCodec) EncodeEncKdcRepPart(part *EncKdcRepPart) ([]byte, error) {
	data, err := encodeGob(part)
	if err != nil {
		return nil, fmt.Errorf("encode EncKdcRepPart: %w", err)
	}
	return data, nil
}

// DecodeEncKdcRepPart is the inverse of EncodeEncKdcRepPart, used by
// clients of this KDC (and by tests) to read back the reply part.
func (GobCodec) DecodeEncKdcRepPart(data []byte) (*EncKdcRepPart, error) {
	var part EncKdcRepPart
	if err := decodeGob(data, &part); err != nil {
		return nil, fmt.Errorf("decode EncKdcRepPart: %w", err)
	}
	return &part, nil
}

// wireKdcReq mirrors KdcReq but carries BodyBytes as the sole source
// of truth for Body: decoding re-derives Body from BodyBytes, the way
// a real TGS-REQ's body is decoded from the exact octets its
// accompanying checksum was taken over.
type wireKdcReq struct {
	PVNO      int32
	MsgType   int32
	PAData    []PAData
	BodyBytes []byte
}

// EncodeKdcReqBody is the canonical encoding of a KDC-REQ-BODY: the
// octets a client checksums and a KDC later re-derives Body from.
// Callers assembling a KdcReq for transmission must set BodyBytes to
// this function's output.
func (GobCodec) EncodeKdcReqBody(body *KdcReqBody) ([]byte, error) {
	data, err := encodeGob(body)
	if err != nil {
		return nil, fmt.Errorf("encode KdcReqBody: %w", err)
	}
	return data, nil
}

// EncodeKdcReq serializes a KdcReq for transmission. req.BodyBytes
// must already hold the output of EncodeKdcReqBody for req.Body.
func (GobCodec) EncodeKdcReq(req *KdcReq) ([]byte, error) {
	wire := wireKdcReq{PVNO: req.PVNO, MsgType: req.MsgType, PAData: req.PAData, BodyBytes: req.BodyBytes}
	data, err := encodeGob(&wire)
	if err != nil {
		return nil, fmt.Errorf("encode KdcReq: %w", err)
	}
	return data, nil
}

// DecodeKdcReq decodes a KdcReq, deriving Body from the wire's
// BodyBytes so BodyBytes and Body always agree.
func (GobCodec) DecodeKdcReq(data []byte) (*KdcReq, error) {
	var wire wireKdcReq
	if err := decodeGob(data, &wire); err != nil {
		return nil, fmt.Errorf("decode KdcReq: %w", err)
	}
	var body KdcReqBody
	if err := decodeGob(wire.BodyBytes, &body); err != nil {
		return nil, fmt.Errorf("decode KdcReqBody: %w", err)
	}
	return &KdcReq{PVNO: wire.PVNO, MsgType: wire.MsgType, PAData: wire.PAData, Body: body, BodyBytes: wire.BodyBytes}, nil
}

type wireTgsRep struct {
	PVNO    int32
	MsgType int32
	CRealm  string
	CName   krb5types.PrincipalName
	Ticket  wireTicket
	EncPart EncryptedData
}

// EncodeTgsRep serializes the reply this KDC hands back to a client.
// rep.Ticket must carry its sealed ciphertext (EncPart).
func (GobCodec) EncodeTgsRep(rep *TgsRep) ([]byte, error) {
	enc, ok := rep.Ticket.EncPart()
	if !ok {
		return nil, fmt.Errorf("encode TgsRep: ticket has no sealed body")
	}
	wire := wireTgsRep{
		PVNO:    rep.PVNO,
		MsgType: rep.MsgType,
		CRealm:  rep.CRealm,
		CName:   rep.CName,
		Ticket:  wireTicket{SName: rep.Ticket.SName, Realm: rep.Ticket.Realm, Enc: enc},
		EncPart: rep.EncPart,
	}
	return encodeGob(&wire)
}

// DecodeTgsRep is the inverse of EncodeTgsRep, used by clients of this
// KDC (and by tests) to read back a reply.
func (GobCodec) DecodeTgsRep(data []byte) (*TgsRep, error) {
	var wire wireTgsRep
	if err := decodeGob(data, &wire); err != nil {
		return nil, fmt.Errorf("decode TgsRep: %w", err)
	}
	return &TgsRep{
		PVNO:    wire.PVNO,
		MsgType: wire.MsgType,
		CRealm:  wire.CRealm,
		CName:   wire.CName,
		Ticket:  NewEncryptedTicket(wire.Ticket.SName, wire.Ticket.Realm, wire.Ticket.Enc),
		EncPart: wire.EncPart,
	}, nil
}

func encodeGob(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
