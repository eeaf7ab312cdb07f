package namefind

import "github.com/quicquam/opennlp4net-sub003/alg/search"

// ContextGenerator combines the features of its generators with the two
// previous outcomes. The additional context, when given, is a [][]string of
// extra per token features, fired as "ne=".
type ContextGenerator struct {
	Generator FeatureGenerator
}

var _ search.ContextGenerator = &ContextGenerator{}

func NewContextGenerator() *ContextGenerator {
	return &ContextGenerator{DefaultFeatureGenerator()}
}

func (g *ContextGenerator) Context(i int, tokens []string, preds []string, additional interface{}) []string {
	po, ppo := OTHER, OTHER
	if i > 1 {
		ppo = preds[i-2]
	}
	if i > 0 {
		po = preds[i-1]
	}
	features := g.Generator.CreateFeatures(make([]string, 0, 64), tokens, i, preds)
	if extra, ok := additional.([][]string); ok && i < len(extra) {
		for _, f := range extra[i] {
			features = append(features, "ne="+f)
		}
	}
	return append(features,
		"po="+po,
		"pow="+po+","+tokens[i],
		"powf="+po+","+TokenClass(tokens[i]),
		"ppo="+ppo,
	)
}

func (g *ContextGenerator) UpdateAdaptiveData(tokens, outcomes []string) {
	g.Generator.UpdateAdaptiveData(tokens, outcomes)
}

func (g *ContextGenerator) ClearAdaptiveData() {
	g.Generator.ClearAdaptiveData()
}
