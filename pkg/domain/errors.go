package domain

import "errors"

var (
	// ErrEmptyInput はプロンプトや本文が空白のみの場合に返されます。
	ErrEmptyInput = errors.New("empty input")
	// ErrBackendFailure は生成バックエンドが失敗応答を返したか、通信に失敗したことを表します。
	ErrBackendFailure = errors.New("backend failure")
	// ErrNoImage はすべての画像プロバイダが画像を返さなかったことを表します。
	ErrNoImage = errors.New("no image from any provider")
	// ErrDecodeFailed は画像データをビットマップに変換できなかったことを表します。
	ErrDecodeFailed = errors.New("image decode failed")
	// ErrCompositingFailed は描画処理中の予期しない失敗です。
	ErrCompositingFailed = errors.New("compositing failed")
	// ErrNoBeats は物語から描画できるビートが1つも得られなかったことを表します。
	ErrNoBeats = errors.New("story produced no meaningful parts")
)
