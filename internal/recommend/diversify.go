package recommend

// 各分类的配额比例（百分比）与上限
var quotaRules = map[Category]struct {
	percent int
	max     int
}{
	CategoryGenre:    {33, 5},
	CategoryDirector: {27, 4},
	CategoryActor:    {27, 4},
	CategorySimilar:  {13, 2},
	CategoryOther:    {0, 0},
}

// ceilPercent 整数运算的 ceil(limit*percent/100)，避免浮点误差
func ceilPercent(limit, percent int) int {
	return (limit*percent + 99) / 100
}

// Quotas 计算各分类的最终名额
//
// 目标配额先按可用数量截断，不足 limit 的部分按 Genre > Director > Actor > Similar > Other
// 的优先级分给还有余量的分类；若截断后总数超过 limit（limit 很小时会出现），
// 从优先级最低的分类开始扣减。
func Quotas(limit int, available map[Category]int) map[Category]int {
	quotas := make(map[Category]int, len(categoryOrder))
	if limit <= 0 {
		return quotas
	}

	total := 0
	for _, cat := range categoryOrder {
		rule := quotaRules[cat]
		q := min(rule.max, ceilPercent(limit, rule.percent))
		q = min(q, available[cat])
		quotas[cat] = q
		total += q
	}

	for i := len(categoryOrder) - 1; i >= 0 && total > limit; i-- {
		cat := categoryOrder[i]
		cut := min(quotas[cat], total-limit)
		quotas[cat] -= cut
		total -= cut
	}

	for _, cat := range categoryOrder {
		if total >= limit {
			break
		}
		spare := available[cat] - quotas[cat]
		if spare <= 0 {
			continue
		}
		add := min(spare, limit-total)
		quotas[cat] += add
		total += add
	}
	return quotas
}

// Diversify 按分类配额挑选候选，输出按分类分组（Genre, Director, Actor, Similar, Other），
// 组内保持打分后的顺序
func Diversify(scored []Candidate, limit int) []Candidate {
	if len(scored) == 0 || limit <= 0 {
		return []Candidate{}
	}

	buckets := make(map[Category][]Candidate, len(categoryOrder))
	available := make(map[Category]int, len(categoryOrder))
	for _, c := range scored {
		cat := c.Category
		if _, ok := quotaRules[cat]; !ok {
			cat = CategoryOther
		}
		buckets[cat] = append(buckets[cat], c)
		available[cat]++
	}

	quotas := Quotas(limit, available)
	result := make([]Candidate, 0, limit)
	for _, cat := range categoryOrder {
		result = append(result, buckets[cat][:quotas[cat]]...)
	}
	return result
}
