package adsclient

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/louisbranch/adsbridge/internal/ads"
	platformerrors "github.com/louisbranch/adsbridge/internal/platform/errors"
	"github.com/louisbranch/adsbridge/internal/storage"
)

// OperationStatus tracks a queued mutation through execution.
type OperationStatus string

const (
	StatusPending  OperationStatus = "PENDING"
	StatusComplete OperationStatus = "COMPLETE"
	StatusError    OperationStatus = "ERROR"
)

// BatchResult reports the outcome of one queued operation.
type BatchResult struct {
	OperationID  string           `json:"operation_id"`
	Kind         ads.MutationKind `json:"kind"`
	CustomerID   string           `json:"customer_id"`
	Status       OperationStatus  `json:"status"`
	ResourceName string           `json:"resource_name,omitempty"`
	Error        string           `json:"error,omitempty"`
}

// batchOperation is one queued mutation.
type batchOperation struct {
	operationID string
	kind        ads.MutationKind
	customerID  string
	op          ads.Operation
	status      OperationStatus
	resource    string
	errMessage  string
}

// Batch queues mutations and executes them in grouped, chunked upstream
// calls. A batch is not safe for use from multiple goroutines during
// Execute; Add and Clear are safe concurrently with each other.
type Batch struct {
	client *Client

	mu  sync.Mutex
	ops []*batchOperation
}

// NewBatch creates an empty mutation batch bound to the client's upstream
// and cache.
func (c *Client) NewBatch() *Batch {
	return &Batch{client: c}
}

func (b *Batch) add(operationID string, kind ads.MutationKind, customerID string, op ads.Operation) error {
	if operationID == "" {
		return platformerrors.New(platformerrors.CodeOperationIDRequired, "operation id is required")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.ops {
		if existing.operationID == operationID {
			return platformerrors.WithMetadata(
				platformerrors.CodeOperationIDRequired,
				fmt.Sprintf("operation id %q is already queued", operationID),
				map[string]string{"operation_id": operationID},
			)
		}
	}
	b.ops = append(b.ops, &batchOperation{
		operationID: operationID,
		kind:        kind,
		customerID:  customerID,
		op:          op,
		status:      StatusPending,
	})
	return nil
}

// AddBudgetUpdate queues a campaign budget change. amountMicros must be
// positive; name is optional.
func (b *Batch) AddBudgetUpdate(operationID, customerID, budgetID string, amountMicros int64, name string) error {
	customerID, err := CleanCustomerID(customerID)
	if err != nil {
		return err
	}
	if amountMicros <= 0 {
		return platformerrors.New(platformerrors.CodePayloadRequired, "budget amount must be positive")
	}
	fields := map[string]any{"amount_micros": amountMicros}
	if name != "" {
		fields["name"] = name
	}
	op, err := ads.UpdateOperation(ads.BudgetResourceName(customerID, budgetID), fields)
	if err != nil {
		return platformerrors.Wrap(platformerrors.CodePayloadRequired, "invalid budget update", err)
	}
	return b.add(operationID, ads.MutateBudget, customerID, op)
}

// AddAdGroupUpdate queues an ad group change. At least one of status or
// cpcBidMicros must be provided.
func (b *Batch) AddAdGroupUpdate(operationID, customerID, adGroupID, status string, cpcBidMicros int64) error {
	customerID, err := CleanCustomerID(customerID)
	if err != nil {
		return err
	}
	fields := map[string]any{}
	if status != "" {
		if err := validateMutableStatus(status); err != nil {
			return err
		}
		fields["status"] = status
	}
	if cpcBidMicros > 0 {
		fields["cpc_bid_micros"] = cpcBidMicros
	}
	if len(fields) == 0 {
		return platformerrors.New(platformerrors.CodePayloadRequired, "ad group update carries no changes")
	}
	op, err := ads.UpdateOperation(ads.AdGroupResourceName(customerID, adGroupID), fields)
	if err != nil {
		return platformerrors.Wrap(platformerrors.CodePayloadRequired, "invalid ad group update", err)
	}
	return b.add(operationID, ads.MutateAdGroup, customerID, op)
}

// AddKeywordUpdate queues an ad group criterion change. At least one of
// status or cpcBidMicros must be provided.
func (b *Batch) AddKeywordUpdate(operationID, customerID, adGroupID, criterionID, status string, cpcBidMicros int64) error {
	customerID, err := CleanCustomerID(customerID)
	if err != nil {
		return err
	}
	fields := map[string]any{}
	if status != "" {
		if err := validateMutableStatus(status); err != nil {
			return err
		}
		fields["status"] = status
	}
	if cpcBidMicros > 0 {
		fields["cpc_bid_micros"] = cpcBidMicros
	}
	if len(fields) == 0 {
		return platformerrors.New(platformerrors.CodePayloadRequired, "keyword update carries no changes")
	}
	op, err := ads.UpdateOperation(ads.CriterionResourceName(customerID, adGroupID, criterionID), fields)
	if err != nil {
		return platformerrors.Wrap(platformerrors.CodePayloadRequired, "invalid keyword update", err)
	}
	return b.add(operationID, ads.MutateAdGroupCriterion, customerID, op)
}

func validateMutableStatus(status string) error {
	switch status {
	case "ENABLED", "PAUSED", "REMOVED":
		return nil
	}
	return platformerrors.WithMetadata(
		platformerrors.CodeFieldInvalid,
		fmt.Sprintf("status %q is not mutable, want ENABLED, PAUSED, or REMOVED", status),
		map[string]string{"status": status},
	)
}

// Pending reports the number of queued operations.
func (b *Batch) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ops)
}

// Clear discards all queued operations without calling upstream.
func (b *Batch) Clear() {
	b.mu.Lock()
	b.ops = nil
	b.mu.Unlock()
}

// batchGroup is the unit of upstream submission: same-kind, same-customer
// operations.
type batchGroup struct {
	kind       ads.MutationKind
	customerID string
	ops        []*batchOperation
}

// Execute submits all queued operations. Operations are partitioned by
// (kind, customer), chunked, and submitted one grouped mutate call per
// kind+chunk with partial-failure mode enabled. A failed call marks its whole
// group; sibling groups still run. The queue is cleared before returning and
// every queued operation appears exactly once in the results.
func (b *Batch) Execute(ctx context.Context) ([]BatchResult, error) {
	b.mu.Lock()
	ops := b.ops
	b.mu.Unlock()
	if len(ops) == 0 {
		return nil, nil
	}

	groups := partition(ops)
	for _, group := range groups {
		for start := 0; start < len(group.ops); start += b.client.maxBatchSize {
			if err := ctx.Err(); err != nil {
				// Abandoned mid-flight; the queue keeps its partial state
				// and must be cleared before reuse.
				return nil, err
			}
			end := start + b.client.maxBatchSize
			if end > len(group.ops) {
				end = len(group.ops)
			}
			chunk := group.ops[start:end]

			// A chunk is single-kind by construction, but regrouping keeps
			// the submission correct if a mixed chunk ever shows up.
			for _, sub := range partition(chunk) {
				b.client.mutateGroup(ctx, sub)
			}

			if end < len(group.ops) && b.client.chunkDelay > 0 {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(b.client.chunkDelay):
				}
			}
		}
	}

	b.client.invalidateMutated(ctx, groups)

	results := make([]BatchResult, 0, len(ops))
	for _, group := range groups {
		for _, op := range group.ops {
			results = append(results, BatchResult{
				OperationID:  op.operationID,
				Kind:         op.kind,
				CustomerID:   op.customerID,
				Status:       op.status,
				ResourceName: op.resource,
				Error:        op.errMessage,
			})
		}
	}

	b.Clear()
	return results, nil
}

// partition splits operations into same-kind, same-customer groups,
// preserving first-seen order.
func partition(ops []*batchOperation) []*batchGroup {
	var groups []*batchGroup
	index := map[string]*batchGroup{}
	for _, op := range ops {
		key := string(op.kind) + "\x00" + op.customerID
		group, ok := index[key]
		if !ok {
			group = &batchGroup{kind: op.kind, customerID: op.customerID}
			index[key] = group
			groups = append(groups, group)
		}
		group.ops = append(group.ops, op)
	}
	return groups
}

// mutateGroup submits one grouped mutate call and records per-operation
// outcomes on the queued operations.
func (c *Client) mutateGroup(ctx context.Context, group *batchGroup) {
	upstreamOps := make([]ads.Operation, len(group.ops))
	for i, op := range group.ops {
		upstreamOps[i] = op.op
	}

	start := c.now()
	resp, err := c.upstream.Mutate(ctx, group.customerID, group.kind, upstreamOps)
	if err != nil {
		apiErr := ads.FromError(err)
		for _, op := range group.ops {
			op.status = StatusError
			op.errMessage = apiErr.Error()
		}
		c.logCall(ctx, "mutate_"+string(group.kind), group.customerID, storage.CacheDisabled, c.now().Sub(start), "", 0, apiErr)
		return
	}

	for i, result := range resp.Results {
		if i >= len(group.ops) {
			break
		}
		if result.ResourceName != "" {
			group.ops[i].status = StatusComplete
			group.ops[i].resource = result.ResourceName
		}
	}

	if resp.PartialFailure != nil {
		// Successes are marked by position above; everything else in the
		// call failed, even when the error detail does not name it.
		detailByIndex := map[int]string{}
		for _, detail := range resp.PartialFailure.Details {
			if detail.Index >= 0 {
				detailByIndex[detail.Index] = detail.Message
			}
		}
		for i, op := range group.ops {
			if op.status == StatusComplete {
				continue
			}
			op.status = StatusError
			if message, ok := detailByIndex[i]; ok {
				op.errMessage = message
			} else {
				op.errMessage = resp.PartialFailure.Message
			}
		}
	} else {
		// A fully successful call may omit resource names; the operations
		// still completed.
		for _, op := range group.ops {
			if op.status == StatusPending {
				op.status = StatusComplete
			}
		}
	}

	c.logCall(ctx, "mutate_"+string(group.kind), group.customerID, storage.CacheDisabled, c.now().Sub(start), "", 0, nil)
}

// mutatedNamespaces maps a mutation kind to the cache namespaces its changes
// can stale.
func mutatedNamespaces(kind ads.MutationKind) []storage.Namespace {
	switch kind {
	case ads.MutateBudget:
		return []storage.Namespace{storage.NamespaceBudget, storage.NamespaceAccountKPI}
	case ads.MutateAdGroup:
		return []storage.Namespace{storage.NamespaceCampaign}
	case ads.MutateAdGroupCriterion:
		return []storage.Namespace{storage.NamespaceKeyword, storage.NamespaceSearchTerm}
	}
	return nil
}

// invalidateMutated clears cache namespaces touched by completed mutations.
// A stale entry is a lesser harm than failing a successful mutation, so
// invalidation failures are logged and swallowed.
func (c *Client) invalidateMutated(ctx context.Context, groups []*batchGroup) {
	if c.cache == nil {
		return
	}
	for _, group := range groups {
		completed := false
		for _, op := range group.ops {
			if op.status == StatusComplete {
				completed = true
				break
			}
		}
		if !completed {
			continue
		}
		for _, namespace := range mutatedNamespaces(group.kind) {
			if _, err := c.cache.Invalidate(ctx, namespace, group.customerID); err != nil {
				log.Printf("invalidating %s cache for %s failed: %v", namespace, group.customerID, err)
			}
		}
	}
}
