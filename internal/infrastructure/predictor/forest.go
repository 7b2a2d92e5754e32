package predictor

import (
	"context"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"card-grader/internal/domain/entity"
	"card-grader/internal/domain/port"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// inputDecimals точность, с которой признаки подаются в модель и возвращаются вызывающему.
const inputDecimals = 2

// Node узел регрессионного дерева. Feature < 0 означает лист со значением Value;
// иначе x[Feature] <= Threshold ведёт в Left, остальное в Right.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree дерево; корень - нулевой узел.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Forest ансамбль деревьев, выход - среднее по деревьям.
type Forest struct {
	Features []string `json:"features,omitempty"`
	Trees    []Tree   `json:"trees"`
}

// ForestPredictor предсказатель оценки на обученном ансамбле деревьев.
type ForestPredictor struct {
	forest Forest
}

// LoadForest читает модель из JSON-файла.
func LoadForest(path string) (*ForestPredictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var f Forest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return NewForestPredictor(f)
}

// NewForestPredictor проверяет структуру ансамбля и создаёт предсказатель.
func NewForestPredictor(f Forest) (*ForestPredictor, error) {
	if len(f.Trees) == 0 {
		return nil, fmt.Errorf("model has no trees")
	}
	for i, t := range f.Trees {
		if err := t.validate(); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return &ForestPredictor{forest: f}, nil
}

// Predict возвращает среднее предсказание деревьев для округлённых признаков.
func (p *ForestPredictor) Predict(ctx context.Context, features entity.FeatureVector) (*entity.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inputs := features.Rounded(inputDecimals)
	x := inputs.Slice()

	var sum float64
	for _, t := range p.forest.Trees {
		sum += t.eval(x)
	}
	return &entity.Prediction{
		Grade:  sum / float64(len(p.forest.Trees)),
		Inputs: inputs,
	}, nil
}

func (t Tree) eval(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature < 0 {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// validate проверяет индексы и то, что дерево без циклов: дочерний узел всегда правее родителя.
func (t Tree) validate() error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Feature < 0 {
			continue
		}
		if n.Feature >= 4 {
			return fmt.Errorf("node %d: feature index %d out of range", i, n.Feature)
		}
		for _, c := range [2]int{n.Left, n.Right} {
			if c <= i || c >= len(t.Nodes) {
				return fmt.Errorf("node %d: invalid child %d", i, c)
			}
		}
	}
	return nil
}

// Проверка реализации интерфейса
var _ port.GradePredictor = (*ForestPredictor)(nil)
