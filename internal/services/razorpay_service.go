package services

import (
	"context"
	"fmt"
	"log"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"

	"github.com/Techspace-2020/gas-agency-system-backend/internal/bizerror"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/models"
	"github.com/Techspace-2020/gas-agency-system-backend/internal/store"
)

var paiseFactor = decimal.NewFromInt(100)

// RazorpayService creates collection links for agents with pending dues so
// the settlement can happen over UPI instead of a cash handover.
type RazorpayService struct {
	Store     store.Store
	keyID     string
	keySecret string
}

func NewRazorpayService(s store.Store, keyID, keySecret string) *RazorpayService {
	return &RazorpayService{Store: s, keyID: keyID, keySecret: keySecret}
}

// IsEnabled reports whether gateway credentials are configured.
func (s *RazorpayService) IsEnabled() bool {
	return s.keyID != "" && s.keySecret != ""
}

func (s *RazorpayService) client() *razorpay.Client {
	if !s.IsEnabled() {
		return nil
	}
	return razorpay.NewClient(s.keyID, s.keySecret)
}

// CreatePaymentLink creates a Razorpay payment link for an agent's pending
// closing balance. Only PENDING balances are collectible; a settled or excess
// balance has nothing to collect.
func (s *RazorpayService) CreatePaymentLink(ctx context.Context, agentName string) (*models.PaymentLinkResponse, error) {
	client := s.client()
	if client == nil {
		return nil, fmt.Errorf("razorpay client not configured")
	}

	agent, err := s.Store.GetAgentByName(ctx, agentName)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, bizerror.AgentNotFound(agentName)
	}

	balances, err := s.Store.ListBalances(ctx)
	if err != nil {
		return nil, err
	}
	var balance *models.DeliveryCashBalance
	for i := range balances {
		if balances[i].AgentID == agent.ID {
			balance = &balances[i]
			break
		}
	}
	if balance == nil || balance.Status != models.BalancePending {
		return nil, bizerror.New("agent has no pending balance to collect")
	}

	// Razorpay amounts are in paise
	amountPaise := balance.ClosingBalance.Mul(paiseFactor).IntPart()

	linkData := map[string]interface{}{
		"amount":       amountPaise,
		"currency":     "INR",
		"description":  fmt.Sprintf("Pending cash settlement for %s", agent.Name),
		"reference_id": fmt.Sprintf("dues_%d_%d", agent.ID, time.Now().Unix()),
		"notes": map[string]interface{}{
			"delivery_agent_id": agent.ID,
			"agent_name":        agent.Name,
		},
	}

	link, err := client.PaymentLink.Create(linkData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay payment link: %w", err)
	}

	linkID, _ := link["id"].(string)
	shortURL, _ := link["short_url"].(string)

	log.Printf("[Razorpay] Created payment link %s for %s", linkID, agent.Name)
	return &models.PaymentLinkResponse{
		AgentName: agent.Name,
		Amount:    balance.ClosingBalance,
		LinkID:    linkID,
		ShortURL:  shortURL,
	}, nil
}
