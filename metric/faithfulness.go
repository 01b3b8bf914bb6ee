//
// Tencent is pleased to support the open source community by making rageval available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// rageval is licensed under the Apache License Version 2.0.
//
//

package metric

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	sentencesdata "github.com/neurosnap/sentences/data"

	"trpc.group/trpc-go/rageval/judge"
	"trpc.group/trpc-go/rageval/log"
)

const claimExtractionSystemPrompt = `You are a careful fact checker. ` +
	`Extract the list of independently checkable factual claims made by an answer. ` +
	`Ignore opinions, hedges, and meta statements. ` +
	`Respond with a JSON object: {"claims": ["claim 1", "claim 2", ...]}.`

const claimVerificationSystemPrompt = `You are a careful fact checker. ` +
	`Classify whether a claim is supported by the provided context. ` +
	`Respond with a JSON object: ` +
	`{"verdict": "supported" | "not_supported" | "contradicted", "evidence": "quoted evidence or explanation"}.`

// claimExtraction is the expected shape of the claim-extraction verdict.
type claimExtraction struct {
	Claims []string `json:"claims"`
}

// claimVerification is the expected shape of a per-claim verdict.
type claimVerification struct {
	Verdict  string `json:"verdict"`
	Evidence string `json:"evidence"`
}

// ScoreFaithfulness scores how well the answer's factual claims are supported
// by the retrieved context. An answer with no extractable claims is trivially
// faithful and scores 1.0 by policy. Per-claim verification calls run
// concurrently. The returned error indicates the claim-extraction judge call
// failed outright; callers record the configured failure default.
func (s *Scorer) ScoreFaithfulness(ctx context.Context, in *Input) (float64, *FaithfulnessAnalysis, error) {
	claims, err := s.extractClaims(ctx, in)
	if err != nil {
		return 0, nil, fmt.Errorf("extract claims: %w", err)
	}
	if len(claims) == 0 {
		// Nothing to falsify is treated as trivially faithful.
		return 1.0, &FaithfulnessAnalysis{}, nil
	}
	contextText := joinChunks(in.Chunks)
	verdicts := make([]ClaimVerdict, len(claims))
	s.runConcurrently(len(claims), func(i int) {
		verdicts[i] = s.verifyClaim(ctx, claims[i], contextText)
	})
	analysis := &FaithfulnessAnalysis{Claims: verdicts}
	supported := 0
	for _, v := range verdicts {
		if v.Verdict == VerdictSupported {
			supported++
			continue
		}
		analysis.UnsupportedClaims = append(analysis.UnsupportedClaims, v.Claim)
	}
	return float64(supported) / float64(len(claims)), analysis, nil
}

// extractClaims asks the judge for the answer's factual claims. When the judge
// responds but its output cannot be parsed, the answer is segmented into
// sentences as a degraded claim list rather than failing the metric.
func (s *Scorer) extractClaims(ctx context.Context, in *Input) ([]string, error) {
	if strings.TrimSpace(in.Answer) == "" {
		return nil, nil
	}
	userPrompt := fmt.Sprintf("Question:\n%s\n\nAnswer:\n%s", in.Question, in.Answer)
	raw, err := s.judge.Call(ctx, claimExtractionSystemPrompt, userPrompt, s.judgeOpts)
	if err != nil {
		return nil, err
	}
	var extraction claimExtraction
	if err := judge.Extract(raw, &extraction); err != nil {
		log.Warnf("faithfulness: claim extraction output unparsable, falling back to sentence segmentation: %v", err)
		return segmentSentences(in.Answer), nil
	}
	claims := make([]string, 0, len(extraction.Claims))
	for _, claim := range extraction.Claims {
		if trimmed := strings.TrimSpace(claim); trimmed != "" {
			claims = append(claims, trimmed)
		}
	}
	return claims, nil
}

// verifyClaim classifies one claim against the context. Failures degrade the
// claim to not_supported so a single flaky call cannot crash the item.
func (s *Scorer) verifyClaim(ctx context.Context, claim, contextText string) ClaimVerdict {
	userPrompt := fmt.Sprintf("Context:\n%s\n\nClaim:\n%s", contextText, claim)
	verdict := ClaimVerdict{Claim: claim, Verdict: VerdictNotSupported}
	raw, err := s.judge.Call(ctx, claimVerificationSystemPrompt, userPrompt, s.judgeOpts)
	if err != nil {
		log.Warnf("faithfulness: claim verification call failed: %v", err)
		return verdict
	}
	var verification claimVerification
	if err := judge.Extract(raw, &verification); err != nil {
		log.Warnf("faithfulness: claim verification output unparsable: %v", err)
		return verdict
	}
	switch verification.Verdict {
	case VerdictSupported, VerdictNotSupported, VerdictContradicted:
		verdict.Verdict = verification.Verdict
	default:
		log.Warnf("faithfulness: unknown claim verdict %q, treating as not supported", verification.Verdict)
	}
	verdict.Evidence = verification.Evidence
	return verdict
}

// segmentSentences splits answer text into sentences using Punkt training
// data, serving as the degraded claim list when extraction is unparsable.
func segmentSentences(text string) []string {
	tokenizer, err := englishTokenizer()
	if err != nil {
		log.Warnf("faithfulness: sentence tokenizer unavailable: %v", err)
		return []string{strings.TrimSpace(text)}
	}
	raw := tokenizer.Tokenize(text)
	out := make([]string, 0, len(raw))
	for _, sent := range raw {
		if trimmed := strings.TrimSpace(sent.Text); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

var (
	// englishTokenizerOnce ensures the Punkt model is loaded once.
	englishTokenizerOnce sync.Once
	englishSentTokenizer *sentences.DefaultSentenceTokenizer
	englishTokenizerErr  error
)

// englishTokenizer lazily loads the English Punkt sentence tokenizer.
func englishTokenizer() (*sentences.DefaultSentenceTokenizer, error) {
	englishTokenizerOnce.Do(func() {
		b, err := sentencesdata.Asset("data/english.json")
		if err != nil {
			englishTokenizerErr = fmt.Errorf("load english punkt data: %w", err)
			return
		}
		training, err := sentences.LoadTraining(b)
		if err != nil {
			englishTokenizerErr = fmt.Errorf("parse english punkt data: %w", err)
			return
		}
		englishSentTokenizer = sentences.NewSentenceTokenizer(training)
	})
	if englishTokenizerErr != nil {
		return nil, englishTokenizerErr
	}
	return englishSentTokenizer, nil
}
