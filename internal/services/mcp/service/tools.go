package service

import (
	"fmt"

	"github.com/louisbranch/adsbridge/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
}

func registerAccountTools(registrar mcpRegistrationTarget, deps Deps) error {
	if err := registerTool(registrar, domain.AccountListTool(), domain.AccountListHandler(deps.Ads, deps.Users)); err != nil {
		return err
	}
	return registerTool(registrar, domain.AccountSummaryTool(), domain.AccountSummaryHandler(deps.Ads, deps.Users))
}

func registerReportTools(registrar mcpRegistrationTarget, deps Deps) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.CampaignListTool(), handler: domain.CampaignListHandler(deps.Ads, deps.Users)},
		{tool: domain.AdGroupListTool(), handler: domain.AdGroupListHandler(deps.Ads, deps.Users)},
		{tool: domain.KeywordListTool(), handler: domain.KeywordListHandler(deps.Ads, deps.Users)},
		{tool: domain.SearchTermListTool(), handler: domain.SearchTermListHandler(deps.Ads, deps.Users)},
		{tool: domain.BudgetListTool(), handler: domain.BudgetListHandler(deps.Ads, deps.Users)},
		{tool: domain.GAQLTool(), handler: domain.GAQLHandler(deps.Ads, deps.Users)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerMutationTools(registrar mcpRegistrationTarget, deps Deps) error {
	if err := registerTool(registrar, domain.BudgetUpdateTool(), domain.BudgetUpdateHandler(deps.Ads, deps.Users)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.AdGroupUpdateTool(), domain.AdGroupUpdateHandler(deps.Ads, deps.Users)); err != nil {
		return err
	}
	return registerTool(registrar, domain.KeywordUpdateTool(), domain.KeywordUpdateHandler(deps.Ads, deps.Users))
}

func registerAdminTools(registrar mcpRegistrationTarget, deps Deps) error {
	if err := registerTool(registrar, domain.CacheStatsTool(), domain.CacheStatsHandler(deps.Cache)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.CacheClearTool(), domain.CacheClearHandler(deps.Cache, deps.Users)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.CacheSweepTool(), domain.CacheSweepHandler(deps.Cache)); err != nil {
		return err
	}
	return registerTool(registrar, domain.CallLogTool(), domain.CallLogHandler(deps.Calls))
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}
