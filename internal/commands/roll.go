package commands

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/keshon/vexilux/pkg/cmd"
	"github.com/keshon/vexilux/pkg/flags"
)

var (
	tokenRegex = regexp.MustCompile(`(?i)(\d*d\d+|\d+|[+\-*/])`)
	diceRegex  = regexp.MustCompile(`(?i)^(\d*)d(\d+)$`)
	validOps   = map[string]bool{"+": true, "-": true, "*": true, "/": true}
)

// rollDie returns a value in [1, sides].
var rollDie = func(sides int) int { return rand.IntN(sides) + 1 }

type term struct {
	value int
	desc  string
	op    string
}

// RollResult is what roll and dice roll return.
type RollResult struct {
	Formula string
	Detail  string
	Total   int
}

func (r RollResult) String() string {
	return fmt.Sprintf("🎲 **Input**: `%s`\n**Calculation**: %s\n**Result**: **%d**", r.Formula, r.Detail, r.Total)
}

func newRoll(shared ...cmd.Option) (*cmd.Command, error) {
	return cmd.New("roll", func(ctx context.Context, c *cmd.Context, inv *cmd.Invocation) (any, error) {
		formula, ok := cmd.FlagAs[string](inv, "formula")
		if !ok || strings.TrimSpace(formula) == "" {
			formula = formulaFromFlags(inv)
		}
		res, err := evaluate(formula)
		if err != nil {
			return nil, err
		}
		return res, c.Reply(ctx, res.String())
	}, options(shared,
		cmd.WithAliases("r"),
		cmd.WithDescription("Roll dice like `--count 2 --sides 20 --modifier 3` or `-f 2d6+1d4*2-3`"),
		cmd.WithFlag("formula", []string{"--formula", "-f"}, flags.Greedy()),
		cmd.WithFlag("count", []string{"--count", "-c"}, flags.WithConverter(positiveInt())),
		cmd.WithFlag("sides", []string{"--sides", "-s"}, flags.WithConverter(positiveInt())),
		cmd.WithFlag("modifier", []string{"--modifier", "-m"}, flags.WithConverter(flags.Int())),
	)...)
}

func formulaFromFlags(inv *cmd.Invocation) string {
	count, sides, mod := 1, 6, 0
	if v, ok := cmd.FlagList[int](inv, "count"); ok && len(v) > 0 {
		count = v[len(v)-1]
	}
	if v, ok := cmd.FlagList[int](inv, "sides"); ok && len(v) > 0 {
		sides = v[len(v)-1]
	}
	if v, ok := cmd.FlagList[int](inv, "modifier"); ok {
		for _, m := range v {
			mod += m
		}
	}

	formula := fmt.Sprintf("%dd%d", count, sides)
	switch {
	case mod > 0:
		formula += fmt.Sprintf("+%d", mod)
	case mod < 0:
		formula += fmt.Sprintf("-%d", -mod)
	}
	return formula
}

func positiveInt() flags.Converter {
	return flags.Typed("positive int", func(s string) (int, error) {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < 1 {
			return 0, fmt.Errorf("%q is not a positive whole number", s)
		}
		return n, nil
	})
}

// evaluate rolls a formula such as 2d6+1d4*2-3. Multiplication and division
// bind tighter than addition and subtraction.
func evaluate(formula string) (RollResult, error) {
	formula = strings.ReplaceAll(formula, " ", "")
	if tokenRegex.ReplaceAllString(formula, "") != "" {
		return RollResult{}, fmt.Errorf("can't parse `%s`, try something like `2d6+1d4*2-3`", formula)
	}
	tokens := tokenRegex.FindAllString(formula, -1)
	if len(tokens) == 0 {
		return RollResult{}, errors.New("can't parse an empty formula, try something like `2d6+1d4*2-3`")
	}

	var terms []term
	currentOp := "+"
	expectValue := true
	for _, token := range tokens {
		if validOps[token] {
			if expectValue && token != "-" && token != "+" {
				return RollResult{}, fmt.Errorf("unexpected `%s`", token)
			}
			currentOp = token
			expectValue = true
			continue
		}
		val, desc, err := evaluateToken(token)
		if err != nil {
			return RollResult{}, fmt.Errorf("failed to evaluate `%s`: %w", token, err)
		}
		terms = append(terms, term{value: val, desc: desc, op: currentOp})
		currentOp = "+"
		expectValue = false
	}
	if expectValue {
		return RollResult{}, errors.New("formula ends with an operator")
	}

	var merged []term
	for _, t := range terms {
		if t.op != "*" && t.op != "/" {
			merged = append(merged, t)
			continue
		}
		prev := merged[len(merged)-1]
		merged = merged[:len(merged)-1]

		v := prev.value * t.value
		if t.op == "/" {
			if t.value == 0 {
				return RollResult{}, errors.New("can't divide by zero")
			}
			v = prev.value / t.value
		}
		merged = append(merged, term{value: v, desc: fmt.Sprintf("%s %s %s", prev.desc, t.op, t.desc), op: prev.op})
	}

	total := 0
	var details []string
	for i, t := range merged {
		if i > 0 || t.op == "-" {
			details = append(details, fmt.Sprintf(" %s ", t.op))
		}
		details = append(details, t.desc)
		if t.op == "-" {
			total -= t.value
		} else {
			total += t.value
		}
	}

	return RollResult{Formula: formula, Detail: strings.TrimSpace(strings.Join(details, "")), Total: total}, nil
}

func evaluateToken(token string) (int, string, error) {
	if m := diceRegex.FindStringSubmatch(token); m != nil {
		count := 1
		if m[1] != "" {
			n, err := strconv.Atoi(m[1])
			if err != nil || n < 1 {
				return 0, "", errors.New("invalid dice count")
			}
			count = n
		}
		sides, err := strconv.Atoi(m[2])
		if err != nil || sides < 2 {
			return 0, "", errors.New("invalid dice sides")
		}
		if count > 100 || sides > 1000 {
			return 0, "", errors.New("too big, max 100 dice and 1000 sides")
		}

		sum := 0
		rolls := make([]string, 0, count)
		for range count {
			r := rollDie(sides)
			sum += r
			rolls = append(rolls, strconv.Itoa(r))
		}
		return sum, fmt.Sprintf("`%s` [%s]", token, strings.Join(rolls, ", ")), nil
	}

	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, "", errors.New("not a number or dice")
	}
	return n, fmt.Sprintf("`%d`", n), nil
}
