package redirects

import (
	"fmt"
	"strings"
	"time"

	"shopsync/internal/models"
	"shopsync/internal/shoper"
)

type SyncLevel string

const (
	LevelSynced  SyncLevel = "synced"
	LevelWarning SyncLevel = "warning"
	LevelError   SyncLevel = "error"
)

// SyncResult is the terminal state of one reconciliation run. Warning means
// the remote accepted the create but the redirect could not be confirmed by
// listing: flagged for operator attention, never treated as success.
type SyncResult struct {
	OK        bool      `json:"ok"`
	Level     SyncLevel `json:"level"`
	Message   string    `json:"message"`
	SourceURL string    `json:"source_url"`
	TargetURL string    `json:"target_url"`
}

const defaultLangID = 1

// SyncRule reconciles one local redirect rule with the remote system:
// resolve source and target, attempt creation, then verify by listing.
// The rule's tracking fields (remote id, normalized source/target, sync
// status) are updated in place regardless of outcome so retries stay
// idempotent; persisting the rule is the caller's job.
func SyncRule(c *shoper.Client, rule *models.RedirectRule) SyncResult {
	// Resolve source.
	source := strings.TrimSpace(rule.SourceURL)
	if source == "" {
		switch {
		case rule.RuleType == models.RuleProductToURL && rule.ProductID != nil:
			source = GuessProductPath(c, *rule.ProductID)
		case rule.RuleType == models.RuleCategoryToURL && rule.CategoryID != nil:
			source = GuessCategoryPath(c, *rule.CategoryID)
		}
	}
	source = NormPath(source)
	if source == "" {
		return errorResult("cannot determine source URL; set the source path or a product/category id", "", "")
	}

	// Resolve target. Typed targets store type + object id; a literal
	// target path is only derived for display.
	targetType := models.TargetOwnURL
	var targetObjectID *int64
	target := NormPath(rule.TargetURL)

	switch rule.RuleType {
	case models.RuleProductToURL:
		if rule.ProductID == nil {
			return errorResult("product rules require a product id", source, target)
		}
		targetType = models.TargetProduct
		targetObjectID = rule.ProductID
		if target == "" {
			target = NormPath(GuessProductPath(c, *rule.ProductID))
		}
	case models.RuleCategoryToURL:
		if rule.CategoryID == nil {
			return errorResult("category rules require a category id", source, target)
		}
		targetType = models.TargetCategory
		targetObjectID = rule.CategoryID
		if target == "" {
			target = NormPath(GuessCategoryPath(c, *rule.CategoryID))
		}
	}

	// Create attempt.
	literalTarget := target
	if targetType != models.TargetOwnURL {
		// Typed targets are addressed by object id; the literal path is
		// display-only and must not leak into the payload.
		literalTarget = ""
	}
	payloads := BuildPayloads(source, rule.StatusCode, literalTarget, targetType, targetObjectID, defaultLangID)
	created := PostRedirect(c, payloads)

	status := created.Message
	if created.URL != "" {
		status = fmt.Sprintf("%s @ %s", created.Message, created.URL)
	}
	if len(status) > 200 {
		status = status[:200]
	}

	// Persist local state regardless of the create outcome so a retry is
	// idempotent on the remote id.
	now := time.Now()
	rule.LastSyncStatus = status
	rule.LastSyncAt = &now
	if created.RemoteID != "" {
		rule.RemoteID = created.RemoteID
	}
	rule.SourceURL = source
	rule.TargetURL = target
	rule.TargetType = targetType
	rule.TargetObjectID = targetObjectID

	if !created.OK {
		return errorResult("sync failed: "+created.Message, source, target)
	}

	// Verify by listing.
	exists, remote := WasRedirectCreated(c, MatchSpec{
		Source:     source,
		Target:     target,
		TargetType: targetType,
		ObjectID:   targetObjectID,
		RemoteID:   rule.RemoteID,
	})
	if !exists {
		return SyncResult{
			Level:     LevelWarning,
			Message:   fmt.Sprintf("API returned %s but the redirect is absent from the listing; check the format your deployment expects", created.Message),
			SourceURL: source,
			TargetURL: target,
		}
	}

	refreshFromRemote(c, rule, remote)
	return SyncResult{
		OK:        true,
		Level:     LevelSynced,
		Message:   "redirect synchronized, " + created.Message,
		SourceURL: source,
		TargetURL: rule.TargetURL,
	}
}

// refreshFromRemote folds the listed remote entry back into the rule,
// guessing a storefront path when the remote names an object but omits a
// literal target.
func refreshFromRemote(c *shoper.Client, rule *models.RedirectRule, remote *RemoteRedirect) {
	if remote == nil {
		return
	}
	target := remote.Target
	if remote.ObjectID != 0 && (target == "" || target == syntheticTarget(remote)) {
		// The listing named an object but no real storefront path; look the
		// path up instead of keeping the /product/{id} placeholder.
		switch remote.TargetType {
		case int(models.TargetProduct):
			target = GuessProductPath(c, remote.ObjectID)
		case int(models.TargetCategory):
			target = GuessCategoryPath(c, remote.ObjectID)
		}
	}
	if target != "" {
		rule.TargetURL = NormPath(target)
	}
	if remote.TargetType >= 0 {
		rule.TargetType = models.RedirectTargetType(remote.TargetType)
	}
	if remote.ObjectID != 0 {
		id := remote.ObjectID
		rule.TargetObjectID = &id
	}
	if remote.RemoteID != "" {
		rule.RemoteID = remote.RemoteID
	}
}

// syntheticTarget reproduces the placeholder path ParseRemoteRedirect
// derives for typed entries without a literal target.
func syntheticTarget(remote *RemoteRedirect) string {
	switch remote.TargetType {
	case int(models.TargetProduct):
		return fmt.Sprintf("/product/%d", remote.ObjectID)
	case int(models.TargetCategory):
		return fmt.Sprintf("/category/%d", remote.ObjectID)
	}
	return ""
}

func errorResult(message, source, target string) SyncResult {
	return SyncResult{
		Level:     LevelError,
		Message:   message,
		SourceURL: source,
		TargetURL: target,
	}
}
