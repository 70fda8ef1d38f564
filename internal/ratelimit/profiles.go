package ratelimit

import "time"

// エンドポイント種別ごとの既定値。
var (
	//認証系はブルートフォース対策で厳しめ（IP単位）
	ProfileAuth = Config{Max: 5, Window: 60 * time.Second}

	//一般API（IP+パス単位）
	ProfileAPI = Config{Max: 100, Window: 15 * time.Minute}

	//検索（IP単位）
	ProfileSearch = Config{Max: 50, Window: 60 * time.Second}
)
