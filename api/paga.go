package api

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kod2ulz/gostart/api"
	"github.com/kod2ulz/gostart/logr"
	"github.com/kod2ulz/paga-business/client"
	"github.com/pkg/errors"
)

type PagaApi interface {
	PagaReferenceApi
	PagaCustomerApi
	PagaPaymentApi
	PagaMerchantApi
	PagaPersistentAccountApi
	// Call invokes an operation by name with a raw parameter map.
	Call(ctx context.Context, name string, params client.Params, photos Photos) (string, error)
}

type PagaReferenceApi interface {
	GetBanks(context.Context, Reference) (string, error)
	GetMerchants(context.Context, Reference) (string, error)
	GetMerchantServices(context.Context, MerchantServicesRequest) (string, error)
	GetOperationStatus(context.Context, Reference) (string, error)
	GetMobileOperators(context.Context, Reference) (string, error)
	AccountBalance(context.Context, Reference) (string, error)
	TransactionHistory(context.Context, Reference) (string, error)
	RecentTransactionHistory(context.Context, Reference) (string, error)
}

type PagaCustomerApi interface {
	RegisterCustomer(context.Context, RegisterCustomerRequest) (string, error)
	RegisterCustomerIdentification(context.Context, CustomerIdentificationRequest) (string, error)
	RegisterCustomerAccountPhoto(context.Context, CustomerAccountPhotoRequest) (string, error)
	ValidateCustomer(context.Context, ValidateCustomerRequest) (string, error)
}

type PagaPaymentApi interface {
	MoneyTransfer(context.Context, MoneyTransferRequest) (string, error)
	MoneyTransferBulk(context.Context, MoneyTransferBulkRequest) (string, error)
	AirtimePurchase(context.Context, AirtimePurchaseRequest) (string, error)
	DepositToBank(context.Context, DepositToBankRequest) (string, error)
	ValidateDepositToBank(context.Context, ValidateDepositToBankRequest) (string, error)
	MerchantPayment(context.Context, MerchantPaymentRequest) (string, error)
}

type PagaMerchantApi interface {
	OnboardMerchant(context.Context, OnboardMerchantRequest) (string, error)
}

type PagaPersistentAccountApi interface {
	RegisterPersistentPaymentAccount(context.Context, PersistentPaymentAccountRequest) (string, error)
	GetPersistentPaymentAccountActivity(context.Context, PersistentPaymentAccountActivityRequest) (string, error)
}

// UnknownOperationError is returned by Call for names missing from the operation table.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown paga operation %q", e.Name)
}

var _ PagaApi = (*paga)(nil)

type PagaApiOption func(*paga)

func WithPagaClientConfig(conf *client.PagaConfig, opts ...client.PagaClientOption) PagaApiOption {
	return func(p *paga) {
		var err error
		opts = append([]client.PagaClientOption{client.WithPagaConfig(conf)}, opts...)
		if p.client, err = client.PagaClient(p.ctx, p.log, opts...); err != nil {
			p.log.WithError(err).Error("failed to initialise paga client using config")
			p.err = err
		}
	}
}

func WithPagaClient(client *client.Paga) PagaApiOption {
	return func(p *paga) {
		p.client = client
	}
}

type paga struct {
	client *client.Paga
	ctx    context.Context
	log    *logr.Logger
	err    error
}

func Paga(ctx context.Context, log *logr.Logger, opts ...PagaApiOption) (out *paga, err error) {
	out = &paga{log: log, ctx: ctx}
	for i := range opts {
		opts[i](out)
	}
	if out.err != nil {
		return nil, out.err
	} else if out.client == nil {
		return nil, errors.Errorf("client not initialised")
	}
	return
}

func getRequestID(ctx context.Context) (out uuid.UUID) {
	var ok bool
	var err error
	if val := ctx.Value(api.RequestID); val != nil {
		if out, ok = val.(uuid.UUID); !ok {
			if out, err = uuid.Parse(fmt.Sprint(val)); err != nil {
				out = uuid.Nil
			}
		}
	}
	if out == uuid.Nil {
		out = uuid.New()
	}
	if gc, ok := ctx.(*gin.Context); ok {
		gc.Set(api.RequestID, out)
	}
	return out
}

func getContextWithRequestID(ctx context.Context, requestId ...uuid.UUID) context.Context {
	if len(requestId) > 0 && requestId[0] != uuid.Nil {
		return context.WithValue(ctx, api.RequestID, requestId[0])
	}
	return context.WithValue(ctx, api.RequestID, getRequestID(ctx))
}

func (s *paga) attachments(photos Photos) (out client.Attachments, err error) {
	if out.AccountPhoto, err = s.client.ResolveAttachment(client.AccountPhoto, photos.AccountPhoto); err != nil {
		return
	}
	out.IdPhoto, err = s.client.ResolveAttachment(client.IdPhoto, photos.IdPhoto)
	return
}

func (s *paga) invoke(ctx context.Context, op client.Operation, req any, photos Photos) (string, error) {
	var err error
	var attachments client.Attachments
	if d, ok := req.(requestDefaults); ok {
		if err = d.LoadRequestDefaults(); err != nil {
			return "", errors.Wrapf(err, "invalid %s request", op.Name)
		}
	}
	if attachments, err = s.attachments(photos); err != nil {
		return "", err
	}
	return s.client.Invoke(getContextWithRequestID(ctx), op, req, attachments)
}

func (s *paga) Call(ctx context.Context, name string, params client.Params, photos Photos) (string, error) {
	op, ok := Lookup(name)
	if !ok {
		return "", &UnknownOperationError{Name: name}
	}
	params, err := loadParamDefaults(op, params)
	if err != nil {
		return "", errors.Wrapf(err, "invalid %s request", op.Name)
	}
	return s.invoke(ctx, op, params, photos)
}

func (s *paga) GetBanks(ctx context.Context, req Reference) (string, error) {
	return s.invoke(ctx, getBanks, &req, Photos{})
}

func (s *paga) GetMerchants(ctx context.Context, req Reference) (string, error) {
	return s.invoke(ctx, getMerchants, &req, Photos{})
}

func (s *paga) GetMerchantServices(ctx context.Context, req MerchantServicesRequest) (string, error) {
	return s.invoke(ctx, getMerchantServices, &req, Photos{})
}

func (s *paga) GetOperationStatus(ctx context.Context, req Reference) (string, error) {
	return s.invoke(ctx, getOperationStatus, &req, Photos{})
}

func (s *paga) GetMobileOperators(ctx context.Context, req Reference) (string, error) {
	return s.invoke(ctx, getMobileOperators, &req, Photos{})
}

func (s *paga) AccountBalance(ctx context.Context, req Reference) (string, error) {
	return s.invoke(ctx, accountBalance, &req, Photos{})
}

func (s *paga) TransactionHistory(ctx context.Context, req Reference) (string, error) {
	return s.invoke(ctx, transactionHistory, &req, Photos{})
}

func (s *paga) RecentTransactionHistory(ctx context.Context, req Reference) (string, error) {
	return s.invoke(ctx, recentTransactionHistory, &req, Photos{})
}

func (s *paga) RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) (string, error) {
	return s.invoke(ctx, registerCustomer, &req, Photos{})
}

func (s *paga) RegisterCustomerIdentification(ctx context.Context, req CustomerIdentificationRequest) (string, error) {
	return s.invoke(ctx, registerCustomerIdentification, &req, req.Photos)
}

func (s *paga) RegisterCustomerAccountPhoto(ctx context.Context, req CustomerAccountPhotoRequest) (string, error) {
	return s.invoke(ctx, registerCustomerAccountPhoto, &req, req.Photos)
}

func (s *paga) ValidateCustomer(ctx context.Context, req ValidateCustomerRequest) (string, error) {
	return s.invoke(ctx, validateCustomer, &req, Photos{})
}

func (s *paga) MoneyTransfer(ctx context.Context, req MoneyTransferRequest) (string, error) {
	return s.invoke(ctx, moneyTransfer, &req, Photos{})
}

func (s *paga) MoneyTransferBulk(ctx context.Context, req MoneyTransferBulkRequest) (string, error) {
	return s.invoke(ctx, moneyTransferBulk, &req, Photos{})
}

func (s *paga) AirtimePurchase(ctx context.Context, req AirtimePurchaseRequest) (string, error) {
	return s.invoke(ctx, airtimePurchase, &req, Photos{})
}

func (s *paga) DepositToBank(ctx context.Context, req DepositToBankRequest) (string, error) {
	return s.invoke(ctx, depositToBank, &req, Photos{})
}

func (s *paga) ValidateDepositToBank(ctx context.Context, req ValidateDepositToBankRequest) (string, error) {
	return s.invoke(ctx, validateDepositToBank, &req, Photos{})
}

func (s *paga) MerchantPayment(ctx context.Context, req MerchantPaymentRequest) (string, error) {
	return s.invoke(ctx, merchantPayment, &req, Photos{})
}

func (s *paga) OnboardMerchant(ctx context.Context, req OnboardMerchantRequest) (string, error) {
	return s.invoke(ctx, onboardMerchant, &req, Photos{})
}

func (s *paga) RegisterPersistentPaymentAccount(ctx context.Context, req PersistentPaymentAccountRequest) (string, error) {
	return s.invoke(ctx, registerPersistentPaymentAccount, &req, Photos{})
}

func (s *paga) GetPersistentPaymentAccountActivity(ctx context.Context, req PersistentPaymentAccountActivityRequest) (string, error) {
	return s.invoke(ctx, getPersistentPaymentAccountActivity, &req, Photos{})
}
