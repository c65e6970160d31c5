package transact

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"math/big"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github/veilport/go-wallet/internal/config"
	"github/veilport/go-wallet/internal/util"
	"github/veilport/go-wallet/internal/wallet"
	"github/veilport/go-wallet/internal/wallet/compute"
	"github/veilport/go-wallet/internal/wallet/credential"
	"github/veilport/go-wallet/internal/wallet/fees"
	"github/veilport/go-wallet/internal/wallet/signer"
)

const (
	nativeDenom    = "uveil"
	nativeDecimals = 6

	// Blinding pads of the wrap/unwrap messages, part of the contract's
	// expected wire format.
	depositPadding = "6355a6f36bf44cc7"
	redeemPadding  = "1b31cef91c89a8ae"
)

type service struct {
	exec    Executor
	store   *credential.Store
	fees    fees.Service
	device  signer.DeviceTransport
	wrapped config.Token
}

// NewService creates the transaction service. wrapped is the token-registry
// entry of the wrapped native coin; device may be nil when no signing
// device is attached.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(exec Executor, store *credential.Store, feeService fees.Service, device signer.DeviceTransport, wrapped config.Token) Service {
	return &service{
		exec:    exec,
		store:   store,
		fees:    feeService,
		device:  device,
		wrapped: wrapped,
	}
}

func (s *service) SetViewingKey(ctx context.Context, identity *wallet.Identity, contractAddress string, viewingKey string) (*Result, error) {
	msg, err := json.Marshal(map[string]any{
		"set_viewing_key": map[string]string{
			"key": viewingKey,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal set_viewing_key msg")
	}

	result, err := s.execute(ctx, identity, compute.ExecuteRequest{
		Contract: contractAddress,
		Msg:      msg,
		Fee:      s.execFee(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.SetExternalKey(identity.Address, contractAddress, viewingKey, credential.KindImported); err != nil {
		return nil, errors.Wrap(err, "failed to record imported viewing key")
	}

	return &Result{TxHash: result.TxHash}, nil
}

func (s *service) CreateRandomViewingKey(ctx context.Context, identity *wallet.Identity, contractAddress string) (*KeyResult, error) {
	msg, err := json.Marshal(map[string]any{
		"create_viewing_key": map[string]string{
			"entropy": uuid.NewString(),
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal create_viewing_key msg")
	}

	result, err := s.execute(ctx, identity, compute.ExecuteRequest{
		Contract: contractAddress,
		Msg:      msg,
		Fee:      s.execFee(),
	})
	if err != nil {
		return nil, err
	}

	// The generated key comes back in the contract's response data.
	var data struct {
		CreateViewingKey struct {
			Key string `json:"key"`
		} `json:"create_viewing_key"`
	}
	if err := json.Unmarshal(result.Data, &data); err != nil {
		return nil, errors.Wrap(err, "failed to decode create_viewing_key response")
	}
	if data.CreateViewingKey.Key == "" {
		return nil, errors.New("contract returned no viewing key")
	}

	if err := s.store.SetExternalKey(identity.Address, contractAddress, data.CreateViewingKey.Key, credential.KindRandom); err != nil {
		return nil, errors.Wrap(err, "failed to record random viewing key")
	}

	return &KeyResult{
		TxHash:     result.TxHash,
		ViewingKey: data.CreateViewingKey.Key,
	}, nil
}

func (s *service) Transfer(ctx context.Context, identity *wallet.Identity, token config.Token, recipient string, amount string) (*Result, error) {
	scaled, err := scaleAmount(amount, token.Decimals)
	if err != nil {
		return nil, err
	}

	msg, err := json.Marshal(map[string]any{
		"transfer": map[string]string{
			"owner":     identity.Address,
			"amount":    scaled,
			"recipient": recipient,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal transfer msg")
	}

	result, err := s.execute(ctx, identity, compute.ExecuteRequest{
		Contract: token.ContractAddress,
		Msg:      msg,
		Fee:      s.execFee(),
	})
	if err != nil {
		return nil, err
	}

	util.LogFromContext(ctx).Info().
		Str("contract", token.ContractAddress).
		Str("tx_hash", result.TxHash).
		Msg("Transfer broadcast")

	return &Result{TxHash: result.TxHash}, nil
}

func (s *service) ConvertToBridge(ctx context.Context, identity *wallet.Identity, token config.Token, bridgeContract string, toAddress string, amount string) (*Result, error) {
	scaled, err := scaleAmount(amount, token.Decimals)
	if err != nil {
		return nil, err
	}

	msg, err := json.Marshal(map[string]any{
		"send": map[string]string{
			"amount":    scaled,
			"recipient": bridgeContract,
			// The foreign recipient rides along for the bridge to unpack.
			"msg": base64.StdEncoding.EncodeToString([]byte(toAddress)),
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal send msg")
	}

	result, err := s.execute(ctx, identity, compute.ExecuteRequest{
		Contract: token.ContractAddress,
		Msg:      msg,
		Fee:      s.execFee(),
	})
	if err != nil {
		return nil, err
	}

	return &Result{TxHash: result.TxHash}, nil
}

func (s *service) Wrap(ctx context.Context, identity *wallet.Identity, amount string) (*Result, error) {
	scaled, err := scaleAmount(amount, nativeDecimals)
	if err != nil {
		return nil, err
	}

	msg, err := json.Marshal(map[string]any{
		"deposit": map[string]string{
			"padding": depositPadding,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal deposit msg")
	}

	result, err := s.execute(ctx, identity, compute.ExecuteRequest{
		Contract:  s.wrapped.ContractAddress,
		Msg:       msg,
		SentFunds: []wallet.Coin{{Denom: nativeDenom, Amount: scaled}},
		Fee:       s.execFee(),
	})
	if err != nil {
		return nil, err
	}

	return &Result{TxHash: result.TxHash}, nil
}

func (s *service) Unwrap(ctx context.Context, identity *wallet.Identity, amount string) (*Result, error) {
	scaled, err := scaleAmount(amount, nativeDecimals)
	if err != nil {
		return nil, err
	}

	msg, err := json.Marshal(map[string]any{
		"redeem": map[string]string{
			"amount":  scaled,
			"padding": redeemPadding,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal redeem msg")
	}

	result, err := s.execute(ctx, identity, compute.ExecuteRequest{
		Contract: s.wrapped.ContractAddress,
		Msg:      msg,
		Fee:      s.execFee(),
	})
	if err != nil {
		return nil, err
	}

	return &Result{TxHash: result.TxHash}, nil
}

// execute constructs the signing capability for this one transaction and
// hands it to the executor.
func (s *service) execute(ctx context.Context, identity *wallet.Identity, req compute.ExecuteRequest) (*compute.ExecuteResult, error) {
	capability, err := signer.New(identity, s.device)
	if err != nil {
		return nil, err
	}

	return s.exec.Execute(ctx, identity.Address, req, capability.Sign)
}

// execFee reads the low tier of the confidential network's fee table,
// falling back to the static default when the table is not loaded yet.
func (s *service) execFee() compute.StdFee {
	table, ok := s.fees.Schedule(wallet.NetworkVeilToken)
	if !ok {
		return compute.ExecFee(0, nativeDenom)
	}

	return compute.ExecFee(table.Low.Fee, nativeDenom)
}

// scaleAmount converts a whole-unit decimal amount into the token's integer
// base units.
func scaleAmount(amount string, decimals int) (string, error) {
	value, ok := new(big.Rat).SetString(amount)
	if !ok {
		return "", errors.Errorf("invalid amount %q", amount)
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	value.Mul(value, new(big.Rat).SetInt(scale))

	if !value.IsInt() {
		return "", errors.Errorf("amount %q has more than %d decimal places", amount, decimals)
	}

	return value.Num().String(), nil
}
