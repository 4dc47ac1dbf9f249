// Copyright 2023 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package daemon

import (
	"context"
	"time"
)

// Recorder receives one observation per daemon call. It is satisfied
// by *metrics.Metrics without this package importing internal/metrics,
// keeping the dependency pointed the conventional way (metrics depends
// on nothing; callers wire it in).
type Recorder interface {
	ObserveDaemonCall(method string, seconds float64, err error)
}

// instrumented wraps a Daemon, reporting every call's latency and
// outcome to a Recorder.
type instrumented struct {
	next Daemon
	rec  Recorder
}

// Instrument wraps d so every call is reported to rec. A nil rec makes
// Instrument a no-op, so callers can wire it unconditionally.
func Instrument(d Daemon, rec Recorder) Daemon {
	if rec == nil {
		return d
	}
	return &instrumented{next: d, rec: rec}
}

func (i *instrumented) observe(method string, start time.Time, err error) {
	i.rec.ObserveDaemonCall(method, time.Since(start).Seconds(), err)
}

func (i *instrumented) GetInfo(ctx context.Context) (Info, error) {
	start := time.Now()
	v, err := i.next.GetInfo(ctx)
	i.observe("get_info", start, err)
	return v, err
}

func (i *instrumented) GetHeight(ctx context.Context) (uint64, error) {
	start := time.Now()
	v, err := i.next.GetHeight(ctx)
	i.observe("get_height", start, err)
	return v, err
}

func (i *instrumented) GetBlock(ctx context.Context, height uint64) (Block, error) {
	start := time.Now()
	v, err := i.next.GetBlock(ctx, height)
	i.observe("get_block", start, err)
	return v, err
}

func (i *instrumented) GetTransactions(ctx context.Context, txHashesHex []string) ([][]byte, error) {
	start := time.Now()
	v, err := i.next.GetTransactions(ctx, txHashesHex)
	i.observe("get_transactions", start, err)
	return v, err
}

func (i *instrumented) GetFeeEstimate(ctx context.Context) (FeeEstimate, error) {
	start := time.Now()
	v, err := i.next.GetFeeEstimate(ctx)
	i.observe("get_fee_estimate", start, err)
	return v, err
}

func (i *instrumented) GetTransactionPool(ctx context.Context) ([]PoolTransaction, error) {
	start := time.Now()
	v, err := i.next.GetTransactionPool(ctx)
	i.observe("get_transaction_pool", start, err)
	return v, err
}

func (i *instrumented) GetOuts(ctx context.Context, requests []OutputRequest) ([]RingMember, error) {
	start := time.Now()
	v, err := i.next.GetOuts(ctx, requests)
	i.observe("get_outs", start, err)
	return v, err
}

func (i *instrumented) GetOutputDistribution(ctx context.Context, toHeight uint64) (OutputDistribution, error) {
	start := time.Now()
	v, err := i.next.GetOutputDistribution(ctx, toHeight)
	i.observe("get_output_distribution", start, err)
	return v, err
}

func (i *instrumented) SendRawTransaction(ctx context.Context, blob []byte) (SendRawTransactionResult, error) {
	start := time.Now()
	v, err := i.next.SendRawTransaction(ctx, blob)
	i.observe("send_raw_transaction", start, err)
	return v, err
}
