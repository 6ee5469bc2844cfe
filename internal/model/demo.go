package model

// demoPlan FTX样例的固定查询计划
var demoPlan = []string{
	"FTX crypto scam fraud rug pull",
	"FTX cryptocurrency security audit vulnerabilities",
	"FTX crypto exchange hack exploit allegations",
}

// DemoFTXResponse 返回FTX（已知高风险案例）的固定调查结果
// 不依赖任何外部服务，保证演示路径永远可用
func DemoFTXResponse() *InvestigationResponse {
	return &InvestigationResponse{
		Plan: append([]string(nil), demoPlan...),
		Logs: []QueryResult{
			{
				Query: demoPlan[0],
				Data: []EvidenceItem{
					{
						Title:   "FTX Collapse: $8 Billion Fraud Case",
						Content: "FTX exchange collapsed in November 2022 after it was revealed that customer funds were misused. Founder Sam Bankman-Fried was charged with fraud, money laundering, and conspiracy. The exchange lost over $8 billion in customer funds.",
						URL:     "https://www.sec.gov/news/press-release/2022-219",
					},
					{
						Title:   "FTX Bankruptcy: Largest Crypto Exchange Failure",
						Content: "FTX filed for bankruptcy after a liquidity crisis. Investigations revealed massive fraud, with customer funds being used for risky investments and personal expenses. Over 1 million customers lost their funds.",
						URL:     "https://www.reuters.com/ftx-bankruptcy",
					},
				},
			},
			{
				Query: demoPlan[1],
				Data: []EvidenceItem{
					{
						Title:   "FTX Security Failures and Missing Funds",
						Content: "FTX had no proper security audits. Customer funds were stored in unsecured accounts and used without permission. The exchange lacked basic security controls and proper fund segregation.",
						URL:     "https://www.coindesk.com/ftx-security",
					},
					{
						Title:   "FTX Regulatory Violations",
						Content: "FTX operated without proper regulatory oversight. The exchange violated multiple securities laws and failed to protect customer assets. Multiple regulatory bodies launched investigations.",
						URL:     "https://www.cftc.gov/ftx-investigation",
					},
				},
			},
			{
				Query: demoPlan[2],
				Data: []EvidenceItem{
					{
						Title:   "FTX: The Complete Story of a Crypto Scam",
						Content: "FTX promised to revolutionize crypto trading but was built on fraud. The exchange misused billions in customer funds, leading to one of the largest crypto collapses in history. Founder faces multiple criminal charges.",
						URL:     "https://www.bbc.com/ftx-scandal",
					},
					{
						Title:   "FTX Scandal: How Customer Funds Were Stolen",
						Content: "The FTX scandal revealed systematic fraud where customer deposits were used for risky trading, personal loans, and political donations. The exchange had no proper accounting or fund segregation.",
						URL:     "https://www.wsj.com/ftx-fraud",
					},
				},
			},
		},
		Report: Report{
			Score: 0,
			Flags: []string{
				"SEC fraud charges",
				"Founder convicted of fraud",
				"$8+ billion in customer funds lost",
				"No proper security audits",
				"Customer funds misused",
				"Exchange collapse and bankruptcy",
				"Well-documented crypto scam case",
			},
			Verdict: "Complete fraud. FTX collapsed after misusing over $8 billion in customer funds. The founder was convicted of fraud. This is one of the largest crypto exchange failures in history. Avoid at all costs.",
		},
	}
}
