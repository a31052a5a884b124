package domain

// BeatResult は1ビート分の処理結果です。成功時は Panel、失敗時は Err が設定されます。
type BeatResult struct {
	Beat      Beat
	Panel     *Panel
	Err       error
	Fallbacks []string // 一次バックエンドの失敗後に試したバックエンド名（試した順）
}

// OK はパネルが生成できたかを返します。
func (r BeatResult) OK() bool {
	return r.Err == nil && r.Panel != nil
}

// BeatResults はビート順に並んだ結果のリストなのだ。
type BeatResults []BeatResult

// Panels は成功したパネルだけをビート順のまま抽出します。
// 失敗したビートは詰めて除外されるため、インデックスはビートと一致しません。
func (rs BeatResults) Panels() []*Panel {
	panels := make([]*Panel, 0, len(rs))
	for _, r := range rs {
		if r.OK() {
			panels = append(panels, r.Panel)
		}
	}
	return panels
}

// Failures は失敗したビートの結果だけを返します。
func (rs BeatResults) Failures() []BeatResult {
	var failed []BeatResult
	for _, r := range rs {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}
