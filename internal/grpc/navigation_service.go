package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"terminal-terrace/journal-wiki/internal/article"
	"terminal-terrace/journal-wiki/internal/journal"
	"terminal-terrace/journal-wiki/pkg/authsdk"
)

// NavigationServiceImpl implements the NavigationService gRPC interface
type NavigationServiceImpl struct {
	journalService *journal.JournalService
	articleService *article.ArticleService
}

// NewNavigationServiceImpl creates a new NavigationService implementation
func NewNavigationServiceImpl(journalService *journal.JournalService, articleService *article.ArticleService) *NavigationServiceImpl {
	return &NavigationServiceImpl{
		journalService: journalService,
		articleService: articleService,
	}
}

// GetSequence returns the reading order of a journal
func (s *NavigationServiceImpl) GetSequence(ctx context.Context, req *GetSequenceRequest) (*SequenceResponse, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := s.journalService.GetSequence(ctx, user.UserID, req.JournalID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &SequenceResponse{ArticleIDs: ids}, nil
}

// ReplaceSequence replaces the reading order of a journal
func (s *NavigationServiceImpl) ReplaceSequence(ctx context.Context, req *ReplaceSequenceRequest) (*SequenceResponse, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	ids := req.ArticleIDs
	if ids == nil {
		ids = []uint{}
	}
	result, err := s.journalService.ReplaceSequence(ctx, user.UserID, req.JournalID, ids)
	if err != nil {
		return nil, toStatus(err)
	}
	return &SequenceResponse{ArticleIDs: result}, nil
}

// GetNeighbors returns the previous and next article of an article
func (s *NavigationServiceImpl) GetNeighbors(ctx context.Context, req *GetNeighborsRequest) (*NeighborsResponse, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.articleService.Neighbors(ctx, user.UserID, req.ArticleID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &NeighborsResponse{PrevArticleID: n.Prev, NextArticleID: n.Next}, nil
}

func currentUser(ctx context.Context) (*authsdk.UserContext, error) {
	user, ok := authsdk.UserFrom(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "未提供认证令牌")
	}
	return user, nil
}
