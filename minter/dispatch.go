package minter

import (
	"context"

	"github.com/bitfsorg/libmint-go/issuance"
)

// Dispatch routes msg to its handler and reports the outcome. It is the only
// entry point for payments.
func (e *Engine) Dispatch(ctx context.Context, env Env, msg *HandleMsg) (*Response, error) {
	if msg == nil {
		msg = &HandleMsg{}
	}
	cmd, err := msg.Command()
	if err != nil {
		e.observe("unknown", env, err)
		return nil, err
	}

	var msgs []issuance.Message
	switch cmd {
	case CmdReceive:
		msgs, err = e.receive(ctx, env, msg.Receive)
	case CmdReceiveTx:
		msgs, err = e.receiveTx(ctx, env, msg.ReceiveTx)
	case CmdUpdateMint:
		err = e.UpdateSaleMode(ctx, env, msg.UpdateMint)
	case CmdAddNftContract:
		err = e.SetIssuanceTarget(ctx, env, msg.AddNftContract.Contract)
	case CmdChangeAdmin:
		err = e.ChangeAdministrator(ctx, env, msg.ChangeAdmin.Admin)
	case CmdLoadMetadata:
		err = e.PreloadItems(ctx, env, msg.LoadMetadata.Items)
	case CmdUpdateMetadataEditors:
		err = e.UpdateMetadataEditors(ctx, env, msg.UpdateMetadataEditors.Addresses)
	}

	e.observe(cmd, env, err)
	if err != nil {
		return nil, err
	}
	return &Response{Command: cmd, Status: StatusSuccess, Messages: msgs}, nil
}
